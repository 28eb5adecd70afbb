package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/trucogame-go/internal/dependencies/clock"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/storage"
)

// DefaultSettleDelay is how long a settled table stays visible before it
// clears or redeals
const DefaultSettleDelay = 3 * time.Second

// Dealer supplies a freshly shuffled deck for every hand
type Dealer interface {
	NewShuffledDeck() model.Deck
}

// Controller runs the rules engine. Operations on one room are serialized;
// different rooms proceed concurrently.
type Controller struct {
	storage     storage.Storage
	dealer      Dealer
	clock       clock.Clock
	settleDelay time.Duration
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[model.RoomID]*sync.Mutex
}

// NewController creates a new game Controller. A non-positive settleDelay
// uses DefaultSettleDelay.
func NewController(
	storage storage.Storage,
	dealer Dealer,
	clock clock.Clock,
	settleDelay time.Duration,
	logger *slog.Logger,
) *Controller {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	return &Controller{
		storage:     storage,
		dealer:      dealer,
		clock:       clock,
		settleDelay: settleDelay,
		logger:      logger.With(slog.String("component", "game")),
		locks:       make(map[model.RoomID]*sync.Mutex),
	}
}

func (c *Controller) lock(roomID model.RoomID) func() {
	c.mu.Lock()
	l, ok := c.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[roomID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// update loads the room's game under its lock, settles a due transition and
// runs fn. A settled transition is saved even when fn rejects the action.
func (c *Controller) update(ctx context.Context, roomID model.RoomID, fn func(g *model.Game, now time.Time) error) (*model.Game, error) {
	unlock := c.lock(roomID)
	defer unlock()

	g, err := c.storage.GetGame(ctx, roomID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	settled, err := c.settle(g, now)
	if err != nil {
		return nil, err
	}

	if err := fn(g, now); err != nil {
		if settled {
			if saveErr := c.save(ctx, g, now); saveErr != nil {
				return nil, saveErr
			}
		}
		return nil, err
	}

	if err := c.save(ctx, g, now); err != nil {
		return nil, err
	}
	return g, nil
}

func (c *Controller) save(ctx context.Context, g *model.Game, now time.Time) error {
	g.UpdatedAt = now
	if err := c.storage.SaveGame(ctx, g); err != nil {
		c.logger.Error("failed to save game",
			slog.String("room_id", string(g.RoomID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// GetGame retrieves the raw game state, settling a due transition first
func (c *Controller) GetGame(ctx context.Context, roomID model.RoomID) (*model.Game, error) {
	unlock := c.lock(roomID)
	defer unlock()

	g, err := c.storage.GetGame(ctx, roomID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	settled, err := c.settle(g, now)
	if err != nil {
		return nil, err
	}
	if settled {
		if err := c.save(ctx, g, now); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Settle applies the room's pending transition if it is due
func (c *Controller) Settle(ctx context.Context, roomID model.RoomID) (*model.Game, error) {
	return c.GetGame(ctx, roomID)
}

// DeleteGame removes the room's game and forgets its lock
func (c *Controller) DeleteGame(ctx context.Context, roomID model.RoomID) error {
	unlock := c.lock(roomID)
	err := c.storage.DeleteGame(ctx, roomID)
	unlock()

	c.mu.Lock()
	delete(c.locks, roomID)
	c.mu.Unlock()
	return err
}

// DeleteIdleGame removes the room's game unless it was updated at or after
// cutoff. It reports whether the game was removed.
func (c *Controller) DeleteIdleGame(ctx context.Context, roomID model.RoomID, cutoff time.Time) (bool, error) {
	unlock := c.lock(roomID)
	g, err := c.storage.GetGame(ctx, roomID)
	if err == nil && !g.UpdatedAt.Before(cutoff) {
		unlock()
		return false, nil
	}
	if err == nil {
		err = c.storage.DeleteGame(ctx, roomID)
	}
	unlock()
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	delete(c.locks, roomID)
	c.mu.Unlock()
	return true, nil
}

// AddPlayer seats an account on the team its seat index dictates
func (c *Controller) AddPlayer(ctx context.Context, roomID model.RoomID, account model.Account) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		switch g.Status {
		case model.GameStatusFinished:
			return model.ErrGameFinished
		case model.GameStatusPlaying:
			return model.ErrGameInProgress
		}
		if g.PlayerIndex(account.ID) >= 0 {
			return model.ErrAlreadySeated
		}
		if g.IsFull() {
			return model.ErrRoomFull
		}

		team := model.SeatTeam(len(g.Players))
		g.Players = append(g.Players, model.Player{
			ID:    account.ID,
			Name:  account.DisplayName,
			Team:  team,
			IsBot: account.IsBot,
		})

		c.logger.Info("player seated",
			slog.String("room_id", string(g.RoomID)),
			slog.String("player_id", string(account.ID)),
			slog.Int("team", int(team)),
			slog.Int("seat", len(g.Players)-1),
		)
		return nil
	})
}

// SetReady marks a player ready. The game starts once every seat is ready.
func (c *Controller) SetReady(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		p := g.Player(playerID)
		if p == nil {
			return model.ErrPlayerNotFound
		}
		if g.Status == model.GameStatusFinished {
			return model.ErrGameFinished
		}
		if p.IsReady {
			return nil
		}
		p.IsReady = true

		if g.Status == model.GameStatusWaiting && len(g.Players) >= model.MinPlayers && g.AllReady() {
			return c.startGame(g)
		}
		return nil
	})
}

// PlayCard moves a card from the player's hand to the table
func (c *Controller) PlayCard(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, card model.Card) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		idx, err := c.validateAction(g, playerID)
		if err != nil {
			return err
		}
		if g.CurrentTurn != idx {
			return model.ErrNotYourTurn
		}
		p := &g.Players[idx]
		cardIdx := p.CardIndex(card)
		if cardIdx < 0 {
			return fmt.Errorf("%w: %s", model.ErrInvalidCard, card)
		}
		if g.Truco.Pending() && g.Truco.RequestedBy == playerID {
			return fmt.Errorf("%w: %s", model.ErrAwaitingResponse, g.Truco.Level)
		}
		if g.Envido != nil && g.Envido.WaitingResponse {
			return fmt.Errorf("%w: %s", model.ErrAwaitingResponse, g.Envido.Level)
		}

		p.RemoveCard(cardIdx)
		g.Table = append(g.Table, model.PlayedCard{PlayerID: playerID, Card: card, Team: p.Team})

		c.logger.Info("card played",
			slog.String("room_id", string(g.RoomID)),
			slog.String("player_id", string(playerID)),
			slog.String("card", card.String()),
			slog.Int("round", g.CurrentRound),
		)

		if next := c.nextToPlay(g, idx); next >= 0 {
			c.setTurn(g, next)
			return nil
		}
		c.resolveRound(g, now)
		return nil
	})
}

// RemovePlayer takes a seat out of the room. Later seats move up and take
// the team of their new index. A game in progress returns to waiting with
// scores kept.
func (c *Controller) RemovePlayer(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		idx := g.PlayerIndex(playerID)
		if idx < 0 {
			return model.ErrPlayerNotFound
		}

		g.Players = append(g.Players[:idx:idx], g.Players[idx+1:]...)
		for i := range g.Players {
			g.Players[i].Team = model.SeatTeam(i)
		}
		g.CurrentTurn = reindexSeat(g.CurrentTurn, idx, len(g.Players))
		g.HandStarter = reindexSeat(g.HandStarter, idx, len(g.Players))

		if g.Status == model.GameStatusPlaying {
			c.abandonHand(g)
			g.Status = model.GameStatusWaiting
			for i := range g.Players {
				g.Players[i].IsReady = false
			}
		}

		c.logger.Info("player removed",
			slog.String("room_id", string(g.RoomID)),
			slog.String("player_id", string(playerID)),
			slog.Int("remaining", len(g.Players)),
		)
		return nil
	})
}

// reindexSeat maps a seat index across the removal of seat removed
func reindexSeat(seat, removed, newLen int) int {
	switch {
	case newLen == 0:
		return 0
	case removed < seat:
		return seat - 1
	case removed == seat:
		return seat % newLen
	}
	return seat
}

// GetGameState returns the full snapshot. Callers redact it with ForViewer.
func (c *Controller) GetGameState(ctx context.Context, roomID model.RoomID) (*model.Snapshot, error) {
	g, err := c.GetGame(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return model.NewSnapshot(g), nil
}

// GetPlayerHand returns the cards the player currently holds
func (c *Controller) GetPlayerHand(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) ([]model.Card, error) {
	g, err := c.GetGame(ctx, roomID)
	if err != nil {
		return nil, err
	}
	p := g.Player(playerID)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	return append([]model.Card{}, p.Hand...), nil
}

// Apply dispatches a tagged action to the matching operation
func (c *Controller) Apply(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, action model.Action) (*model.Game, error) {
	switch action.Type {
	case model.ActionReady:
		return c.SetReady(ctx, roomID, playerID)
	case model.ActionPlayCard:
		return c.PlayCard(ctx, roomID, playerID, action.Card)
	case model.ActionRequestBid:
		return c.RequestBid(ctx, roomID, playerID, action.Bid)
	case model.ActionRespondBid:
		return c.RespondBid(ctx, roomID, playerID, action.Bid, action.Accept)
	case model.ActionDeclareFlor:
		return c.DeclareFlor(ctx, roomID, playerID)
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownAction, action.Type)
}

// validateAction runs the checks shared by every in-hand action and returns
// the player's seat
func (c *Controller) validateAction(g *model.Game, playerID model.PlayerID) (int, error) {
	if g.Status != model.GameStatusPlaying {
		return -1, model.ErrGameNotInProgress
	}
	idx := g.PlayerIndex(playerID)
	if idx < 0 {
		return -1, model.ErrPlayerNotFound
	}
	if g.Pending != nil {
		return -1, model.ErrTransitionPending
	}
	return idx, nil
}

// ControllerInterface is the engine surface used by the session layer
type ControllerInterface interface {
	GetGame(ctx context.Context, roomID model.RoomID) (*model.Game, error)
	Settle(ctx context.Context, roomID model.RoomID) (*model.Game, error)
	DeleteGame(ctx context.Context, roomID model.RoomID) error
	DeleteIdleGame(ctx context.Context, roomID model.RoomID, cutoff time.Time) (bool, error)
	AddPlayer(ctx context.Context, roomID model.RoomID, account model.Account) (*model.Game, error)
	SetReady(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error)
	PlayCard(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, card model.Card) (*model.Game, error)
	RequestTruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error)
	RespondToTruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, accept bool) (*model.Game, error)
	RequestRetruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error)
	RespondToRetruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, accept bool) (*model.Game, error)
	RequestVale4(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error)
	RespondToVale4(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, accept bool) (*model.Game, error)
	RequestEnvido(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error)
	RespondToEnvido(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, accept bool) (*model.Game, error)
	DeclareFlor(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error)
	RequestBid(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, kind model.BidKind) (*model.Game, error)
	RespondBid(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, kind model.BidKind, accept bool) (*model.Game, error)
	RemovePlayer(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error)
	GetGameState(ctx context.Context, roomID model.RoomID) (*model.Snapshot, error)
	GetPlayerHand(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) ([]model.Card, error)
	Apply(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, action model.Action) (*model.Game, error)
}

var _ ControllerInterface = (*Controller)(nil)
