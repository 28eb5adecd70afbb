package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Name       string `json:"name,omitempty"`
	MaxPlayers int    `json:"max_players,omitempty"`
}

// PlayCardRequest is the request body for playing a card. Card takes the
// display form ("7♦") or rank and suit name ("7 ouros").
type PlayCardRequest struct {
	Card string `json:"card"`
}

// RequestBidRequest is the request body for calling a bid
type RequestBidRequest struct {
	Bid string `json:"bid"`
}

// RespondBidRequest is the request body for answering a bid
type RespondBidRequest struct {
	Bid    string `json:"bid"`
	Accept bool   `json:"accept"`
}
