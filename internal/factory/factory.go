package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/trucogame-go/internal/dependencies/clock"
	"github.com/mcoot/trucogame-go/internal/dependencies/random"
	"github.com/mcoot/trucogame-go/internal/realtime"
	"github.com/mcoot/trucogame-go/internal/services/auth"
	"github.com/mcoot/trucogame-go/internal/services/bot"
	"github.com/mcoot/trucogame-go/internal/services/deck"
	"github.com/mcoot/trucogame-go/internal/services/game"
	"github.com/mcoot/trucogame-go/internal/services/room"
	"github.com/mcoot/trucogame-go/internal/services/scheduler"
	"github.com/mcoot/trucogame-go/internal/services/session"
	"github.com/mcoot/trucogame-go/internal/storage"
	"github.com/mcoot/trucogame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/trucogame-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DeckService    *deck.Service
	GameController *game.Controller
	RoomController *room.Controller
	BotService     *bot.Service
	Scheduler      *scheduler.Scheduler
	SessionService *session.Service
	AuthService    *auth.Service

	// Realtime
	HubManager  *realtime.HubManager
	Broadcaster *realtime.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// SessionConfig holds reconnect and idle timings (optional)
	// Zero fields take session.DefaultConfig() values
	SessionConfig session.Config
	// SettleDelay is how long a finished round or hand stays on the table
	// If zero, defaults to game.DefaultSettleDelay
	SettleDelay time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, cfg.SessionConfig, cfg.SettleDelay, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	sessionCfg session.Config,
	settleDelay time.Duration,
	logger *slog.Logger,
) *App {
	// Create services
	deckService := deck.New(rnd)
	gameController := game.NewController(store, deckService, clk, settleDelay, logger)
	roomController := room.NewController(store, gameController, clk, rnd, logger)
	botService := bot.NewService(store, roomController, gameController, bot.NewRandomStrategy(rnd), clk, rnd, logger)
	sched := scheduler.New(clk, logger)
	authService := auth.New(store, clk, rnd, authCfg, logger)

	// Realtime fan-out sits behind the session layer
	hubManager := realtime.NewHubManager(logger)
	broadcaster := realtime.NewBroadcaster(hubManager, logger)
	sessionService := session.NewService(
		gameController, roomController, botService, sched, broadcaster, clk,
		sessionCfg, logger,
	)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		DeckService:    deckService,
		GameController: gameController,
		RoomController: roomController,
		BotService:     botService,
		Scheduler:      sched,
		SessionService: sessionService,
		AuthService:    authService,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
	}
}

// Close stops timers and realtime hubs and releases storage connections
func (a *App) Close() error {
	a.Scheduler.Stop()
	a.HubManager.Shutdown()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
