package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/trucogame-go/internal/api/middleware"
	"github.com/mcoot/trucogame-go/internal/api/request"
	"github.com/mcoot/trucogame-go/internal/api/response"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/realtime"
	"github.com/mcoot/trucogame-go/internal/services/game"
	"github.com/mcoot/trucogame-go/internal/services/session"
)

// GameHandler handles table actions and the realtime streams
type GameHandler struct {
	gameController *game.Controller
	sessionService *session.Service
	hubManager     *realtime.HubManager
	logger         *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	gameController *game.Controller,
	sessionService *session.Service,
	hubManager *realtime.HubManager,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		sessionService: sessionService,
		hubManager:     hubManager,
		logger:         logger.With(slog.String("component", "game_handler")),
	}
}

// State handles GET /api/v1/rooms/{roomID}/state
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.gameController.GetGame(r.Context(), roomIDFromRequest(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ViewerState(g, player.ID))
}

// Cards handles GET /api/v1/rooms/{roomID}/cards
func (h *GameHandler) Cards(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	cards, err := h.gameController.GetPlayerHand(r.Context(), roomIDFromRequest(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HandFromModel(cards))
}

// Ready handles POST /api/v1/rooms/{roomID}/ready
func (h *GameHandler) Ready(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, model.Action{Type: model.ActionReady})
}

// Play handles POST /api/v1/rooms/{roomID}/play
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req request.PlayCardRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Card == "" {
		WriteError(w, NewInvalidRequestError("card is required"))
		return
	}
	card, err := model.ParseCard(req.Card)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.act(w, r, model.Action{Type: model.ActionPlayCard, Card: card})
}

// RequestBid handles POST /api/v1/rooms/{roomID}/bids
func (h *GameHandler) RequestBid(w http.ResponseWriter, r *http.Request) {
	var req request.RequestBidRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Bid == "" {
		WriteError(w, NewInvalidRequestError("bid is required"))
		return
	}
	h.act(w, r, model.Action{Type: model.ActionRequestBid, Bid: model.BidKind(req.Bid)})
}

// RespondBid handles POST /api/v1/rooms/{roomID}/bids/respond
func (h *GameHandler) RespondBid(w http.ResponseWriter, r *http.Request) {
	var req request.RespondBidRequest
	if err := decodeBody(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}
	if req.Bid == "" {
		WriteError(w, NewInvalidRequestError("bid is required"))
		return
	}
	h.act(w, r, model.Action{Type: model.ActionRespondBid, Bid: model.BidKind(req.Bid), Accept: req.Accept})
}

// DeclareFlor handles POST /api/v1/rooms/{roomID}/flor
func (h *GameHandler) DeclareFlor(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, model.Action{Type: model.ActionDeclareFlor})
}

func (h *GameHandler) act(w http.ResponseWriter, r *http.Request, action model.Action) {
	player := middleware.MustGetPlayer(r.Context())

	g, err := h.sessionService.Act(r.Context(), roomIDFromRequest(r), player.ID, action)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ViewerState(g, player.ID))
}

// Events handles GET /api/v1/rooms/{roomID}/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, func(hub *realtime.Hub, client *realtime.Client, roomID model.RoomID, initial realtime.Message) {
		realtime.ServeSSE(w, r, hub, client, initial)
	})
}

// WebSocket handles GET /api/v1/rooms/{roomID}/ws
func (h *GameHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, func(hub *realtime.Hub, client *realtime.Client, roomID model.RoomID, initial realtime.Message) {
		realtime.ServeWS(w, r, hub, client, roomID, h.sessionService, h.logger, initial)
	})
}

// stream attaches the caller to the room's hub for the life of serve.
// Seated players are tracked so a dropped connection starts the reconnect
// grace period.
func (h *GameHandler) stream(
	w http.ResponseWriter,
	r *http.Request,
	serve func(hub *realtime.Hub, client *realtime.Client, roomID model.RoomID, initial realtime.Message),
) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := roomIDFromRequest(r)

	g, err := h.gameController.GetGame(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}
	initial, err := realtime.NewMessage(model.EventGameState, response.ViewerState(g, player.ID))
	if err != nil {
		WriteError(w, err)
		return
	}

	seated := g.PlayerIndex(player.ID) >= 0
	if seated {
		h.sessionService.Reconnected(roomID, player.ID)
		defer h.sessionService.Disconnected(roomID, player.ID)
	}

	client := realtime.NewClient(player.ID)
	hub := h.hubManager.Attach(roomID, client)

	h.logger.Info("realtime client connected",
		slog.String("room_id", string(roomID)),
		slog.String("player_id", string(player.ID)),
		slog.Bool("seated", seated),
	)
	serve(hub, client, roomID, initial)
}
