package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/trucogame-go/internal/api/middleware"
	"github.com/mcoot/trucogame-go/internal/api/request"
	"github.com/mcoot/trucogame-go/internal/api/response"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/room"
	"github.com/mcoot/trucogame-go/internal/services/session"
)

// DefaultMaxPlayers is used when a create request omits max_players
const DefaultMaxPlayers = 2

// RoomHandler handles room listing and seat endpoints
type RoomHandler struct {
	roomController *room.Controller
	sessionService *session.Service
	logger         *slog.Logger
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomController *room.Controller, sessionService *session.Service, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{
		roomController: roomController,
		sessionService: sessionService,
		logger:         logger,
	}
}

func roomIDFromRequest(r *http.Request) model.RoomID {
	return model.RoomID(mux.Vars(r)["roomID"])
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomController.ListRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomListFromSummaries(rooms))
}

// Create handles POST /api/v1/rooms. The creator takes the first seat.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateRoomRequest
	if err := decodeBody(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}
	if req.MaxPlayers == 0 {
		req.MaxPlayers = DefaultMaxPlayers
	}

	created, err := h.roomController.CreateRoom(r.Context(), req.Name, req.MaxPlayers)
	if err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.sessionService.Join(r.Context(), created.RoomID, *player)
	if err != nil {
		if delErr := h.roomController.DeleteRoom(r.Context(), created.RoomID); delErr != nil {
			h.logger.Error("failed to discard room after join error",
				slog.String("room_id", string(created.RoomID)),
				slog.String("error", delErr.Error()))
		}
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomCreated{
		Room:  response.RoomFromSummary(g.Summary()),
		State: response.ViewerState(g, player.ID),
	})
}

// Get handles GET /api/v1/rooms/{roomID}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	summary, err := h.roomController.GetRoom(r.Context(), roomIDFromRequest(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromSummary(*summary))
}

// Join handles POST /api/v1/rooms/{roomID}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.sessionService.Join(r.Context(), roomIDFromRequest(r), *player)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ViewerState(g, player.ID))
}

// Leave handles POST /api/v1/rooms/{roomID}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if _, err := h.sessionService.Leave(r.Context(), roomIDFromRequest(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// AddBot handles POST /api/v1/rooms/{roomID}/bots
func (h *RoomHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	middleware.MustGetPlayer(r.Context())

	account, err := h.sessionService.AddBot(r.Context(), roomIDFromRequest(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.PlayerFromAccount(account))
}

// RemoveBot handles DELETE /api/v1/rooms/{roomID}/bots/{playerID}
func (h *RoomHandler) RemoveBot(w http.ResponseWriter, r *http.Request) {
	middleware.MustGetPlayer(r.Context())
	botID := model.PlayerID(mux.Vars(r)["playerID"])

	if err := h.sessionService.RemoveBot(r.Context(), roomIDFromRequest(r), botID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
