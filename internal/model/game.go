package model

import "time"

// RoomID identifies a room and the game played in it
type RoomID string

// GameStatus is the lifecycle phase of a game
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusPlaying  GameStatus = "playing"
	GameStatusFinished GameStatus = "finished" // terminal
)

const (
	// DefaultTargetScore is the score that ends a game
	DefaultTargetScore = 12
	// CardsPerHand is how many cards each seat is dealt
	CardsPerHand = 3
	// MinPlayers is the smallest table that can start
	MinPlayers = 2
)

// TransitionKind identifies a delayed engine transition
type TransitionKind string

const (
	TransitionRoundClear TransitionKind = "round_clear" // clear the table, winner leads
	TransitionHandRedeal TransitionKind = "hand_redeal" // rotate the starter and redeal
)

// PendingTransition is a scheduled transition that has not been applied yet.
// Actions that would race it are rejected until it settles.
type PendingTransition struct {
	Kind       TransitionKind
	DueAt      time.Time
	NextLeader int // seat that leads after a round clear
}

// PlayedCard is a card on the table this round
type PlayedCard struct {
	PlayerID PlayerID
	Card     Card
	Team     TeamID
}

// RoundResult records the outcome of one round. Winner is NoTeam on a tie.
type RoundResult struct {
	Round        int
	Winner       TeamID
	WinnerPlayer PlayerID
}

// Tied reports whether the round ended in a tie
func (r RoundResult) Tied() bool {
	return r.Winner == NoTeam
}

// Game is the full state of one room's table
type Game struct {
	RoomID     RoomID
	Name       string
	MaxPlayers int
	Status     GameStatus

	Players []Player
	Teams   [2]Team
	Deck    Deck

	CurrentTurn  int
	CurrentRound int
	HandValue    int
	HandStarter  int
	HandNumber   int

	Truco         *TrucoBid
	TrucoDeclined bool
	Envido        *EnvidoBid
	EnvidoSettled bool
	Flor          *FlorDeclaration

	Table  []PlayedCard
	Rounds []RoundResult

	TargetScore int
	Winner      TeamID

	Pending *PendingTransition

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGame creates an empty room waiting for players
func NewGame(roomID RoomID, name string, maxPlayers int, now time.Time) *Game {
	return &Game{
		RoomID:       roomID,
		Name:         name,
		MaxPlayers:   maxPlayers,
		Status:       GameStatusWaiting,
		Teams:        NewTeams(),
		CurrentRound: 1,
		HandValue:    1,
		TargetScore:  DefaultTargetScore,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PlayerIndex returns the seat index of the player, or -1
func (g *Game) PlayerIndex(id PlayerID) int {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// Player returns the seat for id, or nil
func (g *Game) Player(id PlayerID) *Player {
	if i := g.PlayerIndex(id); i >= 0 {
		return &g.Players[i]
	}
	return nil
}

// CurrentPlayer returns the seat whose turn it is, or nil
func (g *Game) CurrentPlayer() *Player {
	if g.CurrentTurn < 0 || g.CurrentTurn >= len(g.Players) {
		return nil
	}
	return &g.Players[g.CurrentTurn]
}

// Team returns the team with the given id, or nil
func (g *Game) Team(id TeamID) *Team {
	for i := range g.Teams {
		if g.Teams[i].ID == id {
			return &g.Teams[i]
		}
	}
	return nil
}

// SeatTeam is the team of seat i. Seats alternate Team1, Team2.
func SeatTeam(i int) TeamID {
	return TeamID(i%2 + 1)
}

// IsFull reports whether every seat is taken
func (g *Game) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// AllReady reports whether every seated player is ready
func (g *Game) AllReady() bool {
	for _, p := range g.Players {
		if !p.IsReady {
			return false
		}
	}
	return len(g.Players) > 0
}

// NextSeat returns the seat after i, wrapping
func (g *Game) NextSeat(i int) int {
	if len(g.Players) == 0 {
		return 0
	}
	return (i + 1) % len(g.Players)
}

// HandStarterTeam returns the team of the seat that started this hand
func (g *Game) HandStarterTeam() TeamID {
	if g.HandStarter < 0 || g.HandStarter >= len(g.Players) {
		return NoTeam
	}
	return g.Players[g.HandStarter].Team
}

// OriginalHand returns the cards a seat was dealt, assuming any missing card
// is still on the table. Only meaningful during the first round.
func (g *Game) OriginalHand(id PlayerID) []Card {
	p := g.Player(id)
	if p == nil {
		return nil
	}
	cards := append([]Card(nil), p.Hand...)
	if g.CurrentRound == 1 {
		for _, pc := range g.Table {
			if pc.PlayerID == id {
				cards = append(cards, pc.Card)
			}
		}
	}
	return cards
}

// RoomSummary is the listing view of a room
type RoomSummary struct {
	RoomID      RoomID
	Name        string
	PlayerCount int
	MaxPlayers  int
	Status      GameStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Summary returns the listing view of the game's room
func (g *Game) Summary() RoomSummary {
	return RoomSummary{
		RoomID:      g.RoomID,
		Name:        g.Name,
		PlayerCount: len(g.Players),
		MaxPlayers:  g.MaxPlayers,
		Status:      g.Status,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// Clone returns a deep copy of g
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]Player, len(g.Players))
	for i, p := range g.Players {
		p.Hand = append([]Card(nil), p.Hand...)
		c.Players[i] = p
	}
	c.Deck = Deck{Cards: append([]Card(nil), g.Deck.Cards...)}
	c.Table = append([]PlayedCard(nil), g.Table...)
	c.Rounds = append([]RoundResult(nil), g.Rounds...)
	if g.Truco != nil {
		bid := *g.Truco
		c.Truco = &bid
	}
	if g.Envido != nil {
		bid := *g.Envido
		if g.Envido.Result != nil {
			result := *g.Envido.Result
			bid.Result = &result
		}
		c.Envido = &bid
	}
	if g.Flor != nil {
		flor := *g.Flor
		c.Flor = &flor
	}
	if g.Pending != nil {
		pending := *g.Pending
		c.Pending = &pending
	}
	return &c
}
