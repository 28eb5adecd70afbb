package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/trucogame-go/internal/dependencies/clock"
	"github.com/mcoot/trucogame-go/internal/dependencies/random"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/game"
	"github.com/mcoot/trucogame-go/internal/services/room"
	"github.com/mcoot/trucogame-go/internal/storage"
)

const (
	// PlayerIDAlphabet is the character set for generating bot player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
	// MaxBotIterations is a safety limit for the ProcessBotActions loop
	MaxBotIterations = 1000
)

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionReady        BotActionType = "ready"
	ActionPlayCard     BotActionType = "play_card"
	ActionRespondBid   BotActionType = "respond_bid"
	ActionGameComplete BotActionType = "game_complete"
)

// BotAction represents a single action taken by a bot during ProcessBotActions
type BotAction struct {
	Type     BotActionType
	PlayerID model.PlayerID
	Card     model.Card
	Bid      model.BidKind
	Accept   bool
}

// Service manages bot seats
type Service struct {
	storage        storage.Storage
	roomController *room.Controller
	gameController *game.Controller
	strategy       Strategy
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	roomController *room.Controller,
	gameController *game.Controller,
	strategy Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:        store,
		roomController: roomController,
		gameController: gameController,
		strategy:       strategy,
		clock:          clk,
		random:         rnd,
		logger:         logger.With(slog.String("component", "bot-service")),
	}
}

// CreateBotAccount creates a new bot account and saves it to storage
func (s *Service) CreateBotAccount(ctx context.Context, displayName string) (*model.Account, error) {
	account := &model.Account{
		ID:          model.PlayerID("bot-" + s.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: displayName,
		IsGuest:     true,
		IsBot:       true,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// AddBot seats a new ready bot in a waiting room
func (s *Service) AddBot(ctx context.Context, roomID model.RoomID) (*model.Account, error) {
	g, err := s.gameController.GetGame(ctx, roomID)
	if err != nil {
		return nil, err
	}
	switch {
	case g.Status == model.GameStatusFinished:
		return nil, model.ErrGameFinished
	case g.Status != model.GameStatusWaiting:
		return nil, model.ErrGameInProgress
	case g.IsFull():
		return nil, model.ErrRoomFull
	}

	// Count existing bots for naming
	botCount := 0
	for _, p := range g.Players {
		if p.IsBot {
			botCount++
		}
	}

	displayName := fmt.Sprintf("Bot %d", botCount+1)
	account, err := s.CreateBotAccount(ctx, displayName)
	if err != nil {
		return nil, err
	}

	if _, err := s.roomController.JoinRoom(ctx, roomID, *account); err != nil {
		_ = s.storage.DeleteAccount(ctx, account.ID)
		return nil, err
	}
	if _, err := s.gameController.SetReady(ctx, roomID, account.ID); err != nil {
		if _, leaveErr := s.roomController.LeaveRoom(ctx, roomID, account.ID); leaveErr != nil {
			s.logger.Error("failed to unseat bot",
				slog.String("room_id", string(roomID)),
				slog.String("bot_id", string(account.ID)),
				slog.String("error", leaveErr.Error()),
			)
		}
		_ = s.storage.DeleteAccount(ctx, account.ID)
		return nil, err
	}

	s.logger.Info("bot added to room",
		slog.String("room_id", string(roomID)),
		slog.String("bot_id", string(account.ID)),
		slog.String("bot_name", displayName),
	)

	return account, nil
}

// RemoveBot takes a bot out of the room and deletes its account
func (s *Service) RemoveBot(ctx context.Context, roomID model.RoomID, botID model.PlayerID) error {
	g, err := s.gameController.GetGame(ctx, roomID)
	if err != nil {
		return err
	}

	p := g.Player(botID)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	if !p.IsBot {
		return model.ErrNotBot
	}

	if _, err := s.roomController.LeaveRoom(ctx, roomID, botID); err != nil {
		return err
	}
	if err := s.storage.DeleteAccount(ctx, botID); err != nil {
		return err
	}

	s.logger.Info("bot removed from room",
		slog.String("room_id", string(roomID)),
		slog.String("bot_id", string(botID)),
	)
	return nil
}

// ProcessBotActions executes bot moves in a cascading loop until a human must
// act or the table is settling. It returns every action taken so callers can
// broadcast.
func (s *Service) ProcessBotActions(ctx context.Context, roomID model.RoomID) ([]BotAction, error) {
	var actions []BotAction

	for i := 0; i < MaxBotIterations; i++ {
		g, err := s.gameController.GetGame(ctx, roomID)
		if err != nil {
			return actions, err
		}

		action, ok := s.nextAction(g)
		if !ok {
			if g.Status == model.GameStatusFinished && len(actions) > 0 {
				actions = append(actions, BotAction{Type: ActionGameComplete})
			}
			break
		}

		if err := s.apply(ctx, roomID, action); err != nil {
			return actions, err
		}
		actions = append(actions, action)
	}

	return actions, nil
}

// nextAction picks the next move any bot seat has to make
func (s *Service) nextAction(g *model.Game) (BotAction, bool) {
	switch g.Status {
	case model.GameStatusWaiting:
		for _, p := range g.Players {
			if p.IsBot && !p.IsReady {
				return BotAction{Type: ActionReady, PlayerID: p.ID}, true
			}
		}
		return BotAction{}, false
	case model.GameStatusPlaying:
	default:
		return BotAction{}, false
	}

	if g.Pending != nil {
		return BotAction{}, false
	}

	if bid := g.Envido; bid != nil && bid.WaitingResponse {
		for i := range g.Players {
			p := &g.Players[i]
			if p.IsBot && p.Team == bid.RespondingTeam {
				return BotAction{
					Type:     ActionRespondBid,
					PlayerID: p.ID,
					Bid:      bid.Level,
					Accept:   s.strategy.RespondToBid(g, p, bid.Level),
				}, true
			}
		}
		return BotAction{}, false
	}

	if bid := g.Truco; bid.Pending() {
		if p := g.Player(bid.Responder); p != nil && p.IsBot {
			return BotAction{
				Type:     ActionRespondBid,
				PlayerID: p.ID,
				Bid:      bid.Level,
				Accept:   s.strategy.RespondToBid(g, p, bid.Level),
			}, true
		}
	}

	p := g.CurrentPlayer()
	if p == nil || !p.IsBot || !p.IsCurrentPlayer || len(p.Hand) == 0 {
		return BotAction{}, false
	}
	if g.Truco.Pending() && g.Truco.RequestedBy == p.ID {
		return BotAction{}, false
	}
	return BotAction{
		Type:     ActionPlayCard,
		PlayerID: p.ID,
		Card:     s.strategy.ChooseCard(g, p),
	}, true
}

func (s *Service) apply(ctx context.Context, roomID model.RoomID, action BotAction) error {
	var err error
	switch action.Type {
	case ActionReady:
		_, err = s.gameController.SetReady(ctx, roomID, action.PlayerID)
	case ActionPlayCard:
		_, err = s.gameController.PlayCard(ctx, roomID, action.PlayerID, action.Card)
	case ActionRespondBid:
		_, err = s.gameController.RespondBid(ctx, roomID, action.PlayerID, action.Bid, action.Accept)
	}
	if err != nil {
		s.logger.Error("bot action failed",
			slog.String("room_id", string(roomID)),
			slog.String("bot_id", string(action.PlayerID)),
			slog.String("action", string(action.Type)),
			slog.String("error", err.Error()),
		)
	}
	return err
}
