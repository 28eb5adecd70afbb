package response

import (
	"time"

	"github.com/mcoot/trucogame-go/internal/model"
)

// Player represents an account in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// PlayerFromAccount converts a model.Account to a response Player
func PlayerFromAccount(a *model.Account) Player {
	return Player{
		ID:          string(a.ID),
		DisplayName: a.DisplayName,
		IsGuest:     a.IsGuest,
		IsBot:       a.IsBot,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *model.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromAccount(&s.Account),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Card is a card as sent over the wire. Display is the rank plus suit
// symbol, which is also accepted back as input.
type Card struct {
	Rank    string `json:"rank"`
	Suit    string `json:"suit"`
	Display string `json:"display"`
}

// CardFromModel converts model.Card
func CardFromModel(c model.Card) Card {
	return Card{
		Rank:    string(c.Rank),
		Suit:    string(c.Suit),
		Display: c.String(),
	}
}

// CardsFromModel converts a slice of cards, keeping nil as nil
func CardsFromModel(cards []model.Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = CardFromModel(c)
	}
	return out
}

// Hand is the response for a seat's own cards
type Hand struct {
	Cards []Card `json:"cards"`
}

// HandFromModel wraps cards in a Hand, never rendering null
func HandFromModel(cards []model.Card) Hand {
	out := CardsFromModel(cards)
	if out == nil {
		out = []Card{}
	}
	return Hand{Cards: out}
}

// Room is the listing view of a room
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PlayerCount int       `json:"player_count"`
	MaxPlayers  int       `json:"max_players"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomFromSummary converts model.RoomSummary
func RoomFromSummary(s model.RoomSummary) Room {
	return Room{
		ID:          string(s.RoomID),
		Name:        s.Name,
		PlayerCount: s.PlayerCount,
		MaxPlayers:  s.MaxPlayers,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// RoomList wraps room listings
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomListFromSummaries converts a slice of summaries
func RoomListFromSummaries(summaries []model.RoomSummary) RoomList {
	rooms := make([]Room, len(summaries))
	for i, s := range summaries {
		rooms[i] = RoomFromSummary(s)
	}
	return RoomList{Rooms: rooms}
}

// RoomCreated is returned when a room opens with its creator seated
type RoomCreated struct {
	Room  Room      `json:"room"`
	State GameState `json:"state"`
}

// Team represents a team and its score
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	RoundsWon int    `json:"rounds_won"`
}

// Seat is one player at the table. Hand is only present for the viewer.
type Seat struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Team            int    `json:"team"`
	IsReady         bool   `json:"is_ready"`
	IsCurrentPlayer bool   `json:"is_current_player"`
	IsBot           bool   `json:"is_bot"`
	HandSize        int    `json:"hand_size"`
	Hand            []Card `json:"hand,omitempty"`
}

// PlayedCard is a card on the table
type PlayedCard struct {
	PlayerID string `json:"player_id"`
	Team     int    `json:"team"`
	Card     Card   `json:"card"`
}

// Round is a resolved round. Winner is 0 on a tie.
type Round struct {
	Round        int    `json:"round"`
	Winner       int    `json:"winner"`
	WinnerPlayer string `json:"winner_player,omitempty"`
	Tied         bool   `json:"tied"`
}

// TrucoBid is a truco-family bid
type TrucoBid struct {
	Level          string `json:"level"`
	Value          int    `json:"value"`
	RequestedBy    string `json:"requested_by"`
	RequestingTeam int    `json:"requesting_team"`
	Responder      string `json:"responder"`
	Accepted       bool   `json:"accepted"`
}

// EnvidoResult is the evaluated envido
type EnvidoResult struct {
	Team1  int `json:"team1"`
	Team2  int `json:"team2"`
	Winner int `json:"winner"`
}

// EnvidoBid is the envido side bet
type EnvidoBid struct {
	Level           string        `json:"level"`
	Value           int           `json:"value"`
	RequestedBy     string        `json:"requested_by"`
	RequestingTeam  int           `json:"requesting_team"`
	RespondingTeam  int           `json:"responding_team"`
	WaitingResponse bool          `json:"waiting_response"`
	Accepted        bool          `json:"accepted"`
	Result          *EnvidoResult `json:"result,omitempty"`
}

// Flor is a declared flor
type Flor struct {
	Value      int    `json:"value"`
	Team       int    `json:"team"`
	DeclaredBy string `json:"declared_by"`
}

// Pending is a transition waiting to be applied
type Pending struct {
	Kind  string    `json:"kind"`
	DueAt time.Time `json:"due_at"`
}

// GameState is a room's table as one viewer sees it
type GameState struct {
	RoomID        string       `json:"room_id"`
	Name          string       `json:"name"`
	Status        string       `json:"status"`
	HasStarted    bool         `json:"has_started"`
	MaxPlayers    int          `json:"max_players"`
	HandNumber    int          `json:"hand_number"`
	CurrentRound  int          `json:"current_round"`
	HandValue     int          `json:"hand_value"`
	CurrentPlayer string       `json:"current_player,omitempty"`
	Teams         []Team       `json:"teams"`
	Players       []Seat       `json:"players"`
	Table         []PlayedCard `json:"table"`
	Rounds        []Round      `json:"rounds"`
	Truco         *TrucoBid    `json:"truco,omitempty"`
	Retruco       *TrucoBid    `json:"retruco,omitempty"`
	Vale4         *TrucoBid    `json:"vale4,omitempty"`
	Envido        *EnvidoBid   `json:"envido,omitempty"`
	Flor          *Flor        `json:"flor,omitempty"`
	Winner        int          `json:"winner,omitempty"`
	Pending       *Pending     `json:"pending,omitempty"`
}

// GameStateFromSnapshot converts a snapshot. Redact it with ForViewer first.
func GameStateFromSnapshot(s model.Snapshot) GameState {
	state := GameState{
		RoomID:        string(s.RoomID),
		Name:          s.Name,
		Status:        string(s.Status),
		HasStarted:    s.HasStarted,
		MaxPlayers:    s.MaxPlayers,
		HandNumber:    s.HandNumber,
		CurrentRound:  s.CurrentRound,
		HandValue:     s.HandValue,
		CurrentPlayer: string(s.CurrentPlayer),
		Teams:         make([]Team, len(s.Teams)),
		Players:       make([]Seat, len(s.Players)),
		Table:         make([]PlayedCard, len(s.Table)),
		Rounds:        make([]Round, len(s.Rounds)),
		Truco:         trucoFromModel(s.Truco),
		Retruco:       trucoFromModel(s.Retruco),
		Vale4:         trucoFromModel(s.Vale4),
		Winner:        int(s.Winner),
	}

	for i, t := range s.Teams {
		state.Teams[i] = Team{ID: int(t.ID), Name: t.Name, Score: t.Score, RoundsWon: t.RoundsWon}
	}
	for i, p := range s.Players {
		state.Players[i] = Seat{
			ID:              string(p.ID),
			Name:            p.Name,
			Team:            int(p.Team),
			IsReady:         p.IsReady,
			IsCurrentPlayer: p.IsCurrentPlayer,
			IsBot:           p.IsBot,
			HandSize:        p.HandSize,
			Hand:            CardsFromModel(p.Hand),
		}
	}
	for i, pc := range s.Table {
		state.Table[i] = PlayedCard{PlayerID: string(pc.PlayerID), Team: int(pc.Team), Card: CardFromModel(pc.Card)}
	}
	for i, r := range s.Rounds {
		state.Rounds[i] = Round{
			Round:        r.Round,
			Winner:       int(r.Winner),
			WinnerPlayer: string(r.WinnerPlayer),
			Tied:         r.Tied(),
		}
	}

	if e := s.Envido; e != nil {
		state.Envido = &EnvidoBid{
			Level:           string(e.Level),
			Value:           e.Value,
			RequestedBy:     string(e.RequestedBy),
			RequestingTeam:  int(e.RequestingTeam),
			RespondingTeam:  int(e.RespondingTeam),
			WaitingResponse: e.WaitingResponse,
			Accepted:        e.Accepted,
		}
		if r := e.Result; r != nil {
			state.Envido.Result = &EnvidoResult{Team1: r.Team1, Team2: r.Team2, Winner: int(r.Winner)}
		}
	}
	if f := s.Flor; f != nil {
		state.Flor = &Flor{Value: f.Value, Team: int(f.Team), DeclaredBy: string(f.DeclaredBy)}
	}
	if p := s.Pending; p != nil {
		state.Pending = &Pending{Kind: string(p.Kind), DueAt: p.DueAt}
	}
	return state
}

func trucoFromModel(b *model.TrucoBid) *TrucoBid {
	if b == nil {
		return nil
	}
	return &TrucoBid{
		Level:          string(b.Level),
		Value:          b.Value,
		RequestedBy:    string(b.RequestedBy),
		RequestingTeam: int(b.RequestingTeam),
		Responder:      string(b.Responder),
		Accepted:       b.Accepted,
	}
}

// ViewerState renders g as viewer sees it
func ViewerState(g *model.Game, viewer model.PlayerID) GameState {
	return GameStateFromSnapshot(model.NewSnapshot(g).ForViewer(viewer))
}
