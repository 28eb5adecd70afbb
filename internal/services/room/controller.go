package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/trucogame-go/internal/dependencies/clock"
	"github.com/mcoot/trucogame-go/internal/dependencies/random"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/game"
	"github.com/mcoot/trucogame-go/internal/storage"
)

// RoomCodeLength is the length of generated room codes
const RoomCodeLength = 6

// Controller is the room registry: it creates, lists and evicts rooms and
// routes seat changes to the game engine
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "room")),
	}
}

// CreateRoom opens an empty room seating 2 or 4 players
func (c *Controller) CreateRoom(ctx context.Context, name string, maxPlayers int) (*model.Game, error) {
	if maxPlayers != 2 && maxPlayers != 4 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidMaxPlayers, maxPlayers)
	}

	// Generate unique room code
	var roomID model.RoomID
	for {
		roomID = model.RoomID(c.random.String(RoomCodeLength, random.CodeAlphabet))
		exists, err := c.storage.GameExists(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Mesa " + string(roomID)
	}

	g := model.NewGame(roomID, name, maxPlayers, c.clock.Now())
	if err := c.storage.SaveGame(ctx, g); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(roomID)),
		slog.String("name", name),
		slog.Int("max_players", maxPlayers),
	)
	return g, nil
}

// GetRoom returns the listing view of a room
func (c *Controller) GetRoom(ctx context.Context, roomID model.RoomID) (*model.RoomSummary, error) {
	g, err := c.storage.GetGame(ctx, roomID)
	if err != nil {
		return nil, err
	}
	summary := g.Summary()
	return &summary, nil
}

// ListRooms returns every open room, oldest first
func (c *Controller) ListRooms(ctx context.Context) ([]model.RoomSummary, error) {
	games, err := c.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]model.RoomSummary, 0, len(games))
	for _, g := range games {
		rooms = append(rooms, g.Summary())
	}
	return rooms, nil
}

// JoinRoom seats the account in the room
func (c *Controller) JoinRoom(ctx context.Context, roomID model.RoomID, account model.Account) (*model.Game, error) {
	return c.gameController.AddPlayer(ctx, roomID, account)
}

// LeaveRoom removes the player and evicts the room once it is empty.
// The returned game is nil when the room was evicted.
func (c *Controller) LeaveRoom(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	g, err := c.gameController.RemovePlayer(ctx, roomID, playerID)
	if err != nil {
		return nil, err
	}
	if len(g.Players) > 0 {
		return g, nil
	}

	if err := c.DeleteRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return nil, nil
}

// DeleteRoom evicts a room and its game
func (c *Controller) DeleteRoom(ctx context.Context, roomID model.RoomID) error {
	if err := c.gameController.DeleteGame(ctx, roomID); err != nil {
		return err
	}
	c.logger.Info("room deleted", slog.String("room_id", string(roomID)))
	return nil
}

// SweepIdle evicts rooms untouched for longer than maxIdle and returns their
// ids. Each room is checked again under its lock before it goes.
func (c *Controller) SweepIdle(ctx context.Context, maxIdle time.Duration) ([]model.RoomID, error) {
	games, err := c.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := c.clock.Now().Add(-maxIdle)
	var evicted []model.RoomID
	for _, g := range games {
		if !g.UpdatedAt.Before(cutoff) {
			continue
		}
		deleted, err := c.gameController.DeleteIdleGame(ctx, g.RoomID, cutoff)
		if err != nil {
			if !errors.Is(err, model.ErrRoomNotFound) {
				c.logger.Error("failed to evict idle room",
					slog.String("room_id", string(g.RoomID)),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		if !deleted {
			continue
		}
		c.logger.Info("room deleted", slog.String("room_id", string(g.RoomID)))
		evicted = append(evicted, g.RoomID)
	}

	if len(evicted) > 0 {
		c.logger.Info("idle rooms swept", slog.Int("count", len(evicted)))
	}
	return evicted, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, name string, maxPlayers int) (*model.Game, error)
	GetRoom(ctx context.Context, roomID model.RoomID) (*model.RoomSummary, error)
	ListRooms(ctx context.Context) ([]model.RoomSummary, error)
	JoinRoom(ctx context.Context, roomID model.RoomID, account model.Account) (*model.Game, error)
	LeaveRoom(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error)
	DeleteRoom(ctx context.Context, roomID model.RoomID) error
	SweepIdle(ctx context.Context, maxIdle time.Duration) ([]model.RoomID, error)
}

var _ ControllerInterface = (*Controller)(nil)
