package deck

import (
	"github.com/mcoot/trucogame-go/internal/dependencies/random"
	"github.com/mcoot/trucogame-go/internal/model"
)

// Service produces shuffled decks
type Service struct {
	random random.Random
}

// New creates a new deck Service
func New(rnd random.Random) *Service {
	return &Service{random: rnd}
}

// NewShuffledDeck returns a full 40-card deck in uniformly random order
func (s *Service) NewShuffledDeck() model.Deck {
	d := model.NewDeck()
	s.Shuffle(&d)
	return d
}

// Shuffle permutes the deck in place (Fisher–Yates)
func (s *Service) Shuffle(d *model.Deck) {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}
