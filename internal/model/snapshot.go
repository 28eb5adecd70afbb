package model

// Snapshot is the full exported state of a room. Use ForViewer before
// handing it to a particular seat.
type Snapshot struct {
	RoomID        RoomID
	Name          string
	Status        GameStatus
	CurrentRound  int
	HandValue     int
	HandNumber    int
	Teams         []Team
	CurrentPlayer PlayerID
	Players       []PlayerView
	Table         []PlayedCard
	Rounds        []RoundResult
	Truco         *TrucoBid
	Retruco       *TrucoBid
	Vale4         *TrucoBid
	Envido        *EnvidoBid
	Flor          *FlorDeclaration
	Winner        TeamID
	MaxPlayers    int
	HasStarted    bool
	Pending       *PendingTransition
}

// PlayerView is one seat as seen in a snapshot. Hand is nil when hidden.
type PlayerView struct {
	ID              PlayerID
	Name            string
	Team            TeamID
	IsReady         bool
	IsCurrentPlayer bool
	IsBot           bool
	HandSize        int
	Hand            []Card
}

// ForViewer returns a copy with every hand but the viewer's hidden
func (s Snapshot) ForViewer(viewer PlayerID) Snapshot {
	players := make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		if p.ID != viewer {
			p.Hand = nil
		}
		players[i] = p
	}
	s.Players = players
	return s
}

// NewSnapshot captures g. Nothing in the result aliases g.
func NewSnapshot(g *Game) *Snapshot {
	snap := &Snapshot{
		RoomID:       g.RoomID,
		Name:         g.Name,
		Status:       g.Status,
		CurrentRound: g.CurrentRound,
		HandValue:    g.HandValue,
		HandNumber:   g.HandNumber,
		Teams:        append([]Team(nil), g.Teams[:]...),
		Table:        append([]PlayedCard(nil), g.Table...),
		Rounds:       append([]RoundResult(nil), g.Rounds...),
		Winner:       g.Winner,
		MaxPlayers:   g.MaxPlayers,
		HasStarted:   g.Status != GameStatusWaiting,
	}

	for _, p := range g.Players {
		snap.Players = append(snap.Players, PlayerView{
			ID:              p.ID,
			Name:            p.Name,
			Team:            p.Team,
			IsReady:         p.IsReady,
			IsCurrentPlayer: p.IsCurrentPlayer,
			IsBot:           p.IsBot,
			HandSize:        len(p.Hand),
			Hand:            append([]Card(nil), p.Hand...),
		})
		if p.IsCurrentPlayer {
			snap.CurrentPlayer = p.ID
		}
	}

	if g.Truco != nil {
		bid := *g.Truco
		switch bid.Level {
		case BidTruco:
			snap.Truco = &bid
		case BidRetruco:
			snap.Retruco = &bid
		case BidVale4:
			snap.Vale4 = &bid
		}
	}
	if g.Envido != nil {
		bid := *g.Envido
		if bid.Result != nil {
			result := *bid.Result
			bid.Result = &result
		}
		snap.Envido = &bid
	}
	if g.Flor != nil {
		flor := *g.Flor
		snap.Flor = &flor
	}
	if g.Pending != nil {
		pending := *g.Pending
		snap.Pending = &pending
	}
	return snap
}
