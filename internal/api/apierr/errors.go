package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternalError  = "INTERNAL_ERROR"

	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeSessionExpired     = "SESSION_EXPIRED"

	CodeRoomNotFound      = "ROOM_NOT_FOUND"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodeRoomFull          = "ROOM_FULL"
	CodeAlreadySeated     = "ALREADY_SEATED"
	CodeInvalidMaxPlayers = "INVALID_MAX_PLAYERS"
	CodeNotBot            = "NOT_BOT"

	CodeGameNotInProgress = "GAME_NOT_IN_PROGRESS"
	CodeGameInProgress    = "GAME_IN_PROGRESS"
	CodeGameFinished      = "GAME_FINISHED"
	CodeTransitionPending = "TRANSITION_PENDING"

	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodeInvalidCard      = "INVALID_CARD"
	CodeAwaitingResponse = "AWAITING_RESPONSE"
	CodeUnknownAction    = "UNKNOWN_ACTION"

	CodeNoPendingBid           = "NO_PENDING_BID"
	CodeWrongResponder         = "WRONG_RESPONDER"
	CodeRequesterCannotRespond = "REQUESTER_CANNOT_RESPOND"
	CodeBidAlreadyActive       = "BID_ALREADY_ACTIVE"
	CodePlayerNotEligible      = "PLAYER_NOT_ELIGIBLE"
	CodeUnsupportedBid         = "UNSUPPORTED_BID"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// mapping lists sentinel errors in match order. Messages come from the
// error itself so wrapped detail reaches the client.
var mapping = []struct {
	err    error
	status int
	code   string
}{
	{model.ErrRoomNotFound, http.StatusNotFound, CodeRoomNotFound},
	{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},

	{model.ErrGameNotInProgress, http.StatusConflict, CodeGameNotInProgress},
	{model.ErrNotYourTurn, http.StatusConflict, CodeNotYourTurn},
	{model.ErrNoPendingBid, http.StatusConflict, CodeNoPendingBid},
	{model.ErrWrongResponder, http.StatusConflict, CodeWrongResponder},
	{model.ErrRequesterCannotRespond, http.StatusConflict, CodeRequesterCannotRespond},
	{model.ErrBidAlreadyActive, http.StatusConflict, CodeBidAlreadyActive},
	{model.ErrPlayerNotEligible, http.StatusConflict, CodePlayerNotEligible},
	{model.ErrTransitionPending, http.StatusConflict, CodeTransitionPending},
	{model.ErrAwaitingResponse, http.StatusConflict, CodeAwaitingResponse},
	{model.ErrRoomFull, http.StatusConflict, CodeRoomFull},
	{model.ErrAlreadySeated, http.StatusConflict, CodeAlreadySeated},
	{model.ErrGameInProgress, http.StatusConflict, CodeGameInProgress},
	{model.ErrGameFinished, http.StatusConflict, CodeGameFinished},
	{model.ErrUsernameTaken, http.StatusConflict, CodeUsernameTaken},

	{model.ErrInvalidCard, http.StatusBadRequest, CodeInvalidCard},
	{model.ErrUnsupportedBid, http.StatusBadRequest, CodeUnsupportedBid},
	{model.ErrInvalidMaxPlayers, http.StatusBadRequest, CodeInvalidMaxPlayers},
	{model.ErrUnknownAction, http.StatusBadRequest, CodeUnknownAction},
	{model.ErrNotBot, http.StatusBadRequest, CodeNotBot},
	{auth.ErrInvalidDisplayName, http.StatusBadRequest, CodeInvalidRequest},
	{auth.ErrInvalidUsername, http.StatusBadRequest, CodeInvalidRequest},
	{auth.ErrWeakPassword, http.StatusBadRequest, CodeInvalidRequest},

	{model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{model.ErrSessionNotFound, http.StatusUnauthorized, CodeUnauthorized},
	{model.ErrSessionExpired, http.StatusUnauthorized, CodeSessionExpired},
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// FromError returns the client-facing form of err
func FromError(err error) APIError {
	return toHTTPError(err).apiError
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return &httpError{m.status, APIError{m.code, err.Error()}}
		}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
