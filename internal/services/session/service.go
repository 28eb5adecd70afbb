package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/trucogame-go/internal/dependencies/clock"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/bot"
	"github.com/mcoot/trucogame-go/internal/services/game"
	"github.com/mcoot/trucogame-go/internal/services/room"
	"github.com/mcoot/trucogame-go/internal/services/scheduler"
)

const sweepKey = "sweep"

// Broadcaster pushes room updates to connected clients
type Broadcaster interface {
	BroadcastGame(g *model.Game)
	BroadcastRoomClosed(roomID model.RoomID)
}

// Config holds the session layer timings
type Config struct {
	ReconnectGrace time.Duration
	IdleTimeout    time.Duration
	SweepInterval  time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		ReconnectGrace: 60 * time.Second,
		IdleTimeout:    30 * time.Minute,
		SweepInterval:  5 * time.Minute,
	}
}

type seatKey struct {
	roomID   model.RoomID
	playerID model.PlayerID
}

// Service runs player actions through the engine and keeps everything that
// follows from them moving: bot turns, broadcasts, delayed transitions and
// connection bookkeeping.
type Service struct {
	gameController *game.Controller
	roomController *room.Controller
	botService     *bot.Service
	scheduler      *scheduler.Scheduler
	broadcaster    Broadcaster
	clock          clock.Clock
	logger         *slog.Logger
	cfg            Config

	mu          sync.Mutex
	connections map[seatKey]int
}

// NewService creates a new session Service
func NewService(
	gameController *game.Controller,
	roomController *room.Controller,
	botService *bot.Service,
	sched *scheduler.Scheduler,
	broadcaster Broadcaster,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Service {
	defaults := DefaultConfig()
	if cfg.ReconnectGrace == 0 {
		cfg.ReconnectGrace = defaults.ReconnectGrace
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = defaults.IdleTimeout
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = defaults.SweepInterval
	}
	return &Service{
		gameController: gameController,
		roomController: roomController,
		botService:     botService,
		scheduler:      sched,
		broadcaster:    broadcaster,
		clock:          clk,
		logger:         logger.With(slog.String("component", "session")),
		cfg:            cfg,
		connections:    make(map[seatKey]int),
	}
}

// Act applies a player's action, then lets bots respond and publishes the
// result. A rejected action changes nothing and is not broadcast.
func (s *Service) Act(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, action model.Action) (*model.Game, error) {
	if _, err := s.gameController.Apply(ctx, roomID, playerID, action); err != nil {
		return nil, err
	}
	return s.advance(ctx, roomID)
}

// Join seats the account and publishes the new table
func (s *Service) Join(ctx context.Context, roomID model.RoomID, account model.Account) (*model.Game, error) {
	if _, err := s.roomController.JoinRoom(ctx, roomID, account); err != nil {
		return nil, err
	}
	return s.advance(ctx, roomID)
}

// Leave removes the player. Once no human is left the room is closed.
// The returned game is nil when the room was closed.
func (s *Service) Leave(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	g, err := s.roomController.LeaveRoom(ctx, roomID, playerID)
	if err != nil {
		return nil, err
	}
	s.scheduler.Cancel(graceKey(roomID, playerID))

	if g == nil || !hasHumans(g) {
		return nil, s.closeRoom(ctx, roomID, g)
	}
	return s.advance(ctx, roomID)
}

// AddBot seats a bot and publishes the new table
func (s *Service) AddBot(ctx context.Context, roomID model.RoomID) (*model.Account, error) {
	account, err := s.botService.AddBot(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := s.advance(ctx, roomID); err != nil {
		return nil, err
	}
	return account, nil
}

// RemoveBot removes a bot seat and publishes the new table
func (s *Service) RemoveBot(ctx context.Context, roomID model.RoomID, botID model.PlayerID) error {
	if err := s.botService.RemoveBot(ctx, roomID, botID); err != nil {
		return err
	}
	_, err := s.advance(ctx, roomID)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil
	}
	return err
}

// Reconnected records an open realtime connection for the seat and cancels
// any pending removal
func (s *Service) Reconnected(roomID model.RoomID, playerID model.PlayerID) {
	s.mu.Lock()
	s.connections[seatKey{roomID, playerID}]++
	s.mu.Unlock()

	if s.scheduler.Cancel(graceKey(roomID, playerID)) {
		s.logger.Info("player reconnected",
			slog.String("room_id", string(roomID)),
			slog.String("player_id", string(playerID)),
		)
	}
}

// Disconnected records a closed connection. When the seat's last connection
// goes away the player is removed after the reconnect grace period.
func (s *Service) Disconnected(roomID model.RoomID, playerID model.PlayerID) {
	key := seatKey{roomID, playerID}
	s.mu.Lock()
	s.connections[key]--
	remaining := s.connections[key]
	if remaining <= 0 {
		delete(s.connections, key)
	}
	s.mu.Unlock()

	if remaining > 0 {
		return
	}

	s.logger.Info("player disconnected",
		slog.String("room_id", string(roomID)),
		slog.String("player_id", string(playerID)),
		slog.Duration("grace", s.cfg.ReconnectGrace),
	)
	s.scheduler.Schedule(graceKey(roomID, playerID), s.cfg.ReconnectGrace, func() {
		s.expireSeat(roomID, playerID)
	})
}

// Connections returns how many realtime connections the seat holds
func (s *Service) Connections(roomID model.RoomID, playerID model.PlayerID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections[seatKey{roomID, playerID}]
}

// Sweep evicts idle rooms once
func (s *Service) Sweep(ctx context.Context) ([]model.RoomID, error) {
	evicted, err := s.roomController.SweepIdle(ctx, s.cfg.IdleTimeout)
	if err != nil {
		return nil, err
	}
	for _, roomID := range evicted {
		s.scheduler.Cancel(settleKey(roomID))
		s.broadcaster.BroadcastRoomClosed(roomID)
	}
	return evicted, nil
}

// RunSweeper sweeps idle rooms every SweepInterval until ctx is done
func (s *Service) RunSweeper(ctx context.Context) {
	var arm func()
	arm = func() {
		s.scheduler.Schedule(sweepKey, s.cfg.SweepInterval, func() {
			if ctx.Err() != nil {
				return
			}
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("idle sweep failed", slog.String("error", err.Error()))
			}
			arm()
		})
	}
	arm()

	<-ctx.Done()
	s.scheduler.Cancel(sweepKey)
}

// advance runs bot turns, broadcasts the resulting table and arms the timer
// for any pending transition
func (s *Service) advance(ctx context.Context, roomID model.RoomID) (*model.Game, error) {
	if _, err := s.botService.ProcessBotActions(ctx, roomID); err != nil {
		s.logger.Error("bot processing failed",
			slog.String("room_id", string(roomID)),
			slog.String("error", err.Error()),
		)
	}

	g, err := s.gameController.GetGame(ctx, roomID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastGame(g)
	s.scheduleSettle(g)
	return g, nil
}

func (s *Service) scheduleSettle(g *model.Game) {
	key := settleKey(g.RoomID)
	if g.Pending == nil {
		s.scheduler.Cancel(key)
		return
	}

	roomID := g.RoomID
	s.scheduler.Schedule(key, g.Pending.DueAt.Sub(s.clock.Now()), func() {
		s.settle(roomID)
	})
}

func (s *Service) settle(roomID model.RoomID) {
	ctx := context.Background()
	if _, err := s.gameController.Settle(ctx, roomID); err != nil {
		if !errors.Is(err, model.ErrRoomNotFound) {
			s.logger.Error("settle failed",
				slog.String("room_id", string(roomID)),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	if _, err := s.advance(ctx, roomID); err != nil && !errors.Is(err, model.ErrRoomNotFound) {
		s.logger.Error("advance after settle failed",
			slog.String("room_id", string(roomID)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) expireSeat(roomID model.RoomID, playerID model.PlayerID) {
	if s.Connections(roomID, playerID) > 0 {
		return
	}

	_, err := s.Leave(context.Background(), roomID, playerID)
	switch {
	case err == nil:
		s.logger.Info("player removed after grace period",
			slog.String("room_id", string(roomID)),
			slog.String("player_id", string(playerID)),
		)
	case errors.Is(err, model.ErrRoomNotFound), errors.Is(err, model.ErrPlayerNotFound):
	default:
		s.logger.Error("failed to remove disconnected player",
			slog.String("room_id", string(roomID)),
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
	}
}

// closeRoom removes any bot seats still in the room. The last departure
// evicts it.
func (s *Service) closeRoom(ctx context.Context, roomID model.RoomID, g *model.Game) error {
	s.scheduler.Cancel(settleKey(roomID))
	if g != nil {
		for _, p := range g.Players {
			if err := s.botService.RemoveBot(ctx, roomID, p.ID); err != nil && !errors.Is(err, model.ErrRoomNotFound) {
				return err
			}
		}
	}
	s.broadcaster.BroadcastRoomClosed(roomID)
	s.logger.Info("room closed", slog.String("room_id", string(roomID)))
	return nil
}

func hasHumans(g *model.Game) bool {
	for _, p := range g.Players {
		if !p.IsBot {
			return true
		}
	}
	return false
}

func settleKey(roomID model.RoomID) string {
	return "settle:" + string(roomID)
}

func graceKey(roomID model.RoomID, playerID model.PlayerID) string {
	return "grace:" + string(roomID) + ":" + string(playerID)
}
