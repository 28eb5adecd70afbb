package model

import "fmt"

// DeckSize is the number of cards in a full Truco deck
const DeckSize = 40

// Deck is an ordered pile of cards. Dealing pops from the end.
type Deck struct {
	Cards []Card
}

// NewDeck returns the 40 cards in a fixed, unshuffled order
func NewDeck() Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return Deck{Cards: cards}
}

// Len returns the number of cards left
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Deal pops nCards per seat, in seat order. The deck is left untouched on error.
func (d *Deck) Deal(nSeats, nCards int) ([][]Card, error) {
	need := nSeats * nCards
	if need > len(d.Cards) {
		return nil, fmt.Errorf("%w: need %d cards, have %d", ErrDeckExhausted, need, len(d.Cards))
	}

	hands := make([][]Card, nSeats)
	for seat := 0; seat < nSeats; seat++ {
		hand := make([]Card, 0, nCards)
		for i := 0; i < nCards; i++ {
			last := len(d.Cards) - 1
			hand = append(hand, d.Cards[last])
			d.Cards = d.Cards[:last]
		}
		hands[seat] = hand
	}
	return hands, nil
}
