package model

// ActionType is the tag of an Action
type ActionType string

const (
	ActionReady       ActionType = "ready"
	ActionPlayCard    ActionType = "play_card"
	ActionRequestBid  ActionType = "request_bid"
	ActionRespondBid  ActionType = "respond_bid"
	ActionDeclareFlor ActionType = "declare_flor"
)

// Action is one player move. Only the fields relevant to Type are read.
type Action struct {
	Type   ActionType
	Card   Card    // play_card
	Bid    BidKind // request_bid, respond_bid
	Accept bool    // respond_bid
}
