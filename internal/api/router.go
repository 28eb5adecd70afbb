package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/trucogame-go/internal/api/handler"
	"github.com/mcoot/trucogame-go/internal/api/middleware"
	sharedmw "github.com/mcoot/trucogame-go/internal/middleware"
	"github.com/mcoot/trucogame-go/internal/realtime"
	"github.com/mcoot/trucogame-go/internal/services/auth"
	"github.com/mcoot/trucogame-go/internal/services/game"
	"github.com/mcoot/trucogame-go/internal/services/room"
	"github.com/mcoot/trucogame-go/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	RoomController *room.Controller
	GameController *game.Controller
	SessionService *session.Service
	HubManager     *realtime.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.RoomController, cfg.SessionService, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.SessionService, cfg.HubManager, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.List).Methods(http.MethodGet)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{roomID}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{roomID}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{roomID}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{roomID}/bots", roomHandler.AddBot).Methods(http.MethodPost)
	rooms.HandleFunc("/{roomID}/bots/{playerID}", roomHandler.RemoveBot).Methods(http.MethodDelete)

	// Table routes
	rooms.HandleFunc("/{roomID}/state", gameHandler.State).Methods(http.MethodGet)
	rooms.HandleFunc("/{roomID}/cards", gameHandler.Cards).Methods(http.MethodGet)
	rooms.HandleFunc("/{roomID}/ready", gameHandler.Ready).Methods(http.MethodPost)
	rooms.HandleFunc("/{roomID}/play", gameHandler.Play).Methods(http.MethodPost)
	rooms.HandleFunc("/{roomID}/bids", gameHandler.RequestBid).Methods(http.MethodPost)
	rooms.HandleFunc("/{roomID}/bids/respond", gameHandler.RespondBid).Methods(http.MethodPost)
	rooms.HandleFunc("/{roomID}/flor", gameHandler.DeclareFlor).Methods(http.MethodPost)

	// Realtime
	rooms.HandleFunc("/{roomID}/events", gameHandler.Events).Methods(http.MethodGet)
	rooms.HandleFunc("/{roomID}/ws", gameHandler.WebSocket).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
