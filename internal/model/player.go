package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Account is an authenticated identity that can take a seat in a room
type Account struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // true for unregistered players
	IsBot       bool
	CreatedAt   time.Time
}

// RegisteredAccount holds login credentials for a non-guest account.
// Stored separately so the hash never travels with a session.
type RegisteredAccount struct {
	PlayerID     PlayerID
	Username     string // immutable
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Player is a seat at a table
type Player struct {
	ID              PlayerID
	Name            string
	Team            TeamID
	Hand            []Card
	IsReady         bool
	IsCurrentPlayer bool
	IsBot           bool
}

// CardIndex returns the index of card in the hand, or -1
func (p *Player) CardIndex(card Card) int {
	for i, c := range p.Hand {
		if c == card {
			return i
		}
	}
	return -1
}

// RemoveCard takes the card at index i out of the hand
func (p *Player) RemoveCard(i int) Card {
	card := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	return card
}

// Envido computes the envido value of the player's current hand
func (p *Player) Envido() int {
	return EnvidoOf(p.Hand)
}

// HasFlor reports whether all three cards in hand share a suit
func (p *Player) HasFlor() bool {
	return HasFlor(p.Hand)
}

// Flor returns the flor value, or 0 when the hand has no flor
func (p *Player) Flor() int {
	return FlorOf(p.Hand)
}

// EnvidoOf returns the best same-suit pair plus 20, or the single highest
// envido card when no suit repeats.
func EnvidoOf(cards []Card) int {
	bySuit := make(map[Suit][]int)
	best := 0
	for _, c := range cards {
		v := c.EnvidoValue()
		bySuit[c.Suit] = append(bySuit[c.Suit], v)
		best = max(best, v)
	}

	paired := false
	result := 0
	for _, values := range bySuit {
		if len(values) < 2 {
			continue
		}
		first, second := topTwo(values)
		result = max(result, first+second+20)
		paired = true
	}
	if !paired {
		return best
	}
	return result
}

// HasFlor reports whether cards is a three-card hand of a single suit
func HasFlor(cards []Card) bool {
	if len(cards) != 3 {
		return false
	}
	return cards[0].Suit == cards[1].Suit && cards[1].Suit == cards[2].Suit
}

// FlorOf returns the sum of the three envido values plus 20, or 0 without flor
func FlorOf(cards []Card) int {
	if !HasFlor(cards) {
		return 0
	}
	total := 20
	for _, c := range cards {
		total += c.EnvidoValue()
	}
	return total
}

func topTwo(values []int) (int, int) {
	first, second := -1, -1
	for _, v := range values {
		switch {
		case v > first:
			first, second = v, first
		case v > second:
			second = v
		}
	}
	return first, second
}
