package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasFortyUniqueCards(t *testing.T) {
	deck := NewDeck()
	require.Equal(t, DeckSize, deck.Len())

	seen := make(map[Card]bool)
	for _, c := range deck.Cards {
		assert.True(t, c.Valid(), c.String())
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestDealPopsFromTheEndInSeatOrder(t *testing.T) {
	deck := NewDeck()
	last := deck.Cards[len(deck.Cards)-1]
	fourth := deck.Cards[len(deck.Cards)-4]

	hands, err := deck.Deal(2, 3)
	require.NoError(t, err)
	require.Len(t, hands, 2)

	assert.Equal(t, last, hands[0][0])
	assert.Equal(t, fourth, hands[1][0])
	assert.Equal(t, DeckSize-6, deck.Len())
}

func TestDealConservesCards(t *testing.T) {
	deck := NewDeck()
	hands, err := deck.Deal(4, 3)
	require.NoError(t, err)

	seen := make(map[Card]bool)
	for _, c := range deck.Cards {
		seen[c] = true
	}
	for _, hand := range hands {
		assert.Len(t, hand, 3)
		for _, c := range hand {
			assert.False(t, seen[c], "dealt card still in deck: %s", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, DeckSize)
}

func TestDealExhausted(t *testing.T) {
	deck := Deck{Cards: NewDeck().Cards[:5]}
	_, err := deck.Deal(2, 3)
	assert.ErrorIs(t, err, ErrDeckExhausted)
	assert.Equal(t, 5, deck.Len())
}
