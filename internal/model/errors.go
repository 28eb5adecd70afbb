package model

import "errors"

// Common errors used across the application
var (
	// Account and session errors
	ErrPlayerNotFound     = errors.New("player not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")

	// Room errors
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrAlreadySeated     = errors.New("player is already seated in this room")
	ErrInvalidMaxPlayers = errors.New("rooms seat 2 or 4 players")
	ErrNotBot            = errors.New("player is not a bot")

	// Lifecycle errors
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrGameInProgress    = errors.New("game is in progress")
	ErrGameFinished      = errors.New("game is finished")
	ErrTransitionPending = errors.New("table is settling, try again shortly")

	// Play errors
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrInvalidCard      = errors.New("card is not in the player's hand")
	ErrAwaitingResponse = errors.New("a bid is awaiting a response")
	ErrDeckExhausted    = errors.New("deck exhausted")
	ErrUnknownAction    = errors.New("unknown action")

	// Bid errors
	ErrNoPendingBid           = errors.New("no bid awaiting a response")
	ErrWrongResponder         = errors.New("player is not the designated responder")
	ErrRequesterCannotRespond = errors.New("requester cannot respond to their own bid")
	ErrBidAlreadyActive       = errors.New("a bid is already active")
	ErrPlayerNotEligible      = errors.New("player is not eligible for this action")
	ErrUnsupportedBid         = errors.New("bid is not supported")
)
