package bot

import (
	"github.com/mcoot/trucogame-go/internal/dependencies/random"
	"github.com/mcoot/trucogame-go/internal/model"
)

// RandomStrategy plays a random card and flips a coin on bids
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseCard returns a random card from the hand
func (s *RandomStrategy) ChooseCard(game *model.Game, self *model.Player) model.Card {
	if len(self.Hand) == 0 {
		return model.Card{}
	}
	return self.Hand[s.random.Intn(len(self.Hand))]
}

// RespondToBid accepts half of the time
func (s *RandomStrategy) RespondToBid(game *model.Game, self *model.Player, bid model.BidKind) bool {
	return s.random.Intn(2) == 0
}
