package model

// BidKind names a bid as it appears on the wire
type BidKind string

const (
	BidTruco             BidKind = "truco"
	BidRetruco           BidKind = "retruco"
	BidVale4             BidKind = "vale4"
	BidEnvido            BidKind = "envido"
	BidRealEnvido        BidKind = "real_envido"
	BidFaltaEnvido       BidKind = "falta_envido"
	BidFlor              BidKind = "flor"
	BidContraFlor        BidKind = "contra_flor"
	BidContraFlorEoResto BidKind = "contra_flor_resto"
)

// IsTrucoFamily reports whether the bid belongs to the truco ladder
func (k BidKind) IsTrucoFamily() bool {
	return k == BidTruco || k == BidRetruco || k == BidVale4
}

// TrucoValue returns the hand value once the bid is accepted
func (k BidKind) TrucoValue() int {
	switch k {
	case BidTruco:
		return 2
	case BidRetruco:
		return 3
	case BidVale4:
		return 4
	}
	return 1
}

// TrucoBid is the single truco-family slot. Level is one of truco, retruco
// or vale4, so at most one ladder state exists at a time.
type TrucoBid struct {
	Level          BidKind
	Value          int
	RequestedBy    PlayerID
	RequestingTeam TeamID
	Responder      PlayerID
	Accepted       bool
}

// Pending reports whether the bid still awaits an answer
func (b *TrucoBid) Pending() bool {
	return b != nil && !b.Accepted
}

// EnvidoBid tracks the envido side bet for the current hand
type EnvidoBid struct {
	Level           BidKind
	Value           int
	RequestedBy     PlayerID
	RequestingTeam  TeamID
	RespondingTeam  TeamID
	WaitingResponse bool
	Accepted        bool
	Result          *EnvidoResult // set once accepted and evaluated
}

// EnvidoResult records both teams' best envido and who took the points
type EnvidoResult struct {
	Team1  int
	Team2  int
	Winner TeamID
}

// FlorDeclaration records a declared flor
type FlorDeclaration struct {
	Level      BidKind
	Value      int
	Team       TeamID
	DeclaredBy PlayerID
}
