package model

import (
	"fmt"
	"strings"
)

// Suit is one of the four Spanish-deck suits
type Suit string

const (
	SuitCopas   Suit = "copas"   // ♥
	SuitOuros   Suit = "ouros"   // ♦
	SuitPaus    Suit = "paus"    // ♣
	SuitEspadas Suit = "espadas" // ♠
)

// Suits lists every suit in deck-building order
var Suits = []Suit{SuitCopas, SuitOuros, SuitPaus, SuitEspadas}

// Symbol returns the display symbol for the suit
func (s Suit) Symbol() string {
	switch s {
	case SuitCopas:
		return "♥"
	case SuitOuros:
		return "♦"
	case SuitPaus:
		return "♣"
	case SuitEspadas:
		return "♠"
	}
	return "?"
}

// Rank is a card face value. There are no 8s or 9s.
type Rank string

const (
	RankAce    Rank = "1"
	RankTwo    Rank = "2"
	RankThree  Rank = "3"
	RankFour   Rank = "4"
	RankFive   Rank = "5"
	RankSix    Rank = "6"
	RankSeven  Rank = "7"
	RankSota   Rank = "10"
	RankCavalo Rank = "11"
	RankRei    Rank = "12"
)

// Ranks lists every rank in deck-building order
var Ranks = []Rank{RankAce, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankSota, RankCavalo, RankRei}

// strengthTable orders non-manilha cards: 4 < 5 < 6 < 7 < 10 < 11 < 12 < 1 < 2 < 3
var strengthTable = map[Rank]int{
	RankFour:   1,
	RankFive:   2,
	RankSix:    3,
	RankSeven:  4,
	RankSota:   5,
	RankCavalo: 6,
	RankRei:    7,
	RankAce:    8,
	RankTwo:    9,
	RankThree:  10,
}

// manilhaTable orders the four manilhas, 7♦ lowest to 1♠ highest
var manilhaTable = map[Card]int{
	{Rank: RankSeven, Suit: SuitOuros}:   1,
	{Rank: RankSeven, Suit: SuitEspadas}: 2,
	{Rank: RankAce, Suit: SuitPaus}:      3,
	{Rank: RankAce, Suit: SuitEspadas}:   4,
}

var envidoTable = map[Rank]int{
	RankAce:    1,
	RankTwo:    2,
	RankThree:  3,
	RankFour:   4,
	RankFive:   5,
	RankSix:    6,
	RankSeven:  7,
	RankSota:   0,
	RankCavalo: 0,
	RankRei:    0,
}

// Card is an immutable playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard builds a card, validating rank and suit
func NewCard(rank Rank, suit Suit) (Card, error) {
	c := Card{Rank: rank, Suit: suit}
	if !c.Valid() {
		return Card{}, fmt.Errorf("%w: %s of %s", ErrInvalidCard, rank, suit)
	}
	return c, nil
}

// Valid reports whether the card belongs to the 40-card deck
func (c Card) Valid() bool {
	if _, ok := strengthTable[c.Rank]; !ok {
		return false
	}
	return c.Suit.Symbol() != "?"
}

// StrengthRank returns the position of the card's rank in the non-manilha order
func (c Card) StrengthRank() int {
	return strengthTable[c.Rank]
}

// IsManilha reports whether the card is one of the four privileged cards
func (c Card) IsManilha() bool {
	_, ok := manilhaTable[c]
	return ok
}

// ManilhaRank returns the order among manilhas, or 0 for ordinary cards
func (c Card) ManilhaRank() int {
	return manilhaTable[c]
}

// EnvidoValue returns the card's envido points (figures are worth 0)
func (c Card) EnvidoValue() int {
	return envidoTable[c.Rank]
}

// Compare returns a positive number if c beats other, negative if other
// beats c, and 0 on a tie.
func (c Card) Compare(other Card) int {
	cm, om := c.IsManilha(), other.IsManilha()
	switch {
	case cm && om:
		return c.ManilhaRank() - other.ManilhaRank()
	case cm:
		return 1
	case om:
		return -1
	}
	return c.StrengthRank() - other.StrengthRank()
}

// Beats reports whether c strictly beats other
func (c Card) Beats(other Card) bool {
	return c.Compare(other) > 0
}

// String renders the card as rank plus suit symbol, e.g. "7♦"
func (c Card) String() string {
	return string(c.Rank) + c.Suit.Symbol()
}

// ParseCard parses "7♦", "7ouros", "7-ouros" or "1 espadas"
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	rank := Rank(s[:i])
	rest := strings.TrimLeft(s[i:], " -:")

	var suit Suit
	for _, candidate := range Suits {
		if rest == string(candidate) || rest == candidate.Symbol() {
			suit = candidate
			break
		}
	}
	return NewCard(rank, suit)
}
