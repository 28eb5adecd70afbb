package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/scoring"
)

// Envido points
const (
	EnvidoAcceptedPoints = 2
	EnvidoDeclinedPoints = 1
)

// RequestEnvido opens the envido side bet. Only the seat on turn may call it,
// once per hand, during the first round.
func (c *Controller) RequestEnvido(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		idx, err := c.validateAction(g, playerID)
		if err != nil {
			return err
		}
		if g.CurrentTurn != idx {
			return model.ErrNotYourTurn
		}
		if g.CurrentRound != 1 {
			return fmt.Errorf("%w: envido is only called in the first round", model.ErrPlayerNotEligible)
		}
		if g.Envido != nil && g.Envido.WaitingResponse {
			return model.ErrBidAlreadyActive
		}
		if g.EnvidoSettled {
			return fmt.Errorf("%w: envido was already played this hand", model.ErrPlayerNotEligible)
		}

		team := g.Players[idx].Team
		g.Envido = &model.EnvidoBid{
			Level:           model.BidEnvido,
			Value:           EnvidoAcceptedPoints,
			RequestedBy:     playerID,
			RequestingTeam:  team,
			RespondingTeam:  team.Opponent(),
			WaitingResponse: true,
		}

		c.logger.Info("bid requested",
			slog.String("room_id", string(g.RoomID)),
			slog.String("bid", string(model.BidEnvido)),
			slog.String("player_id", string(playerID)),
		)
		return nil
	})
}

// RespondToEnvido answers a pending envido. Any member of the opposing team
// may answer.
func (c *Controller) RespondToEnvido(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, accept bool) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		idx, err := c.validateAction(g, playerID)
		if err != nil {
			return err
		}
		bid := g.Envido
		if bid == nil || !bid.WaitingResponse {
			return fmt.Errorf("%w: %s", model.ErrNoPendingBid, model.BidEnvido)
		}
		if bid.RequestedBy == playerID {
			return model.ErrRequesterCannotRespond
		}
		if g.Players[idx].Team != bid.RespondingTeam {
			return model.ErrWrongResponder
		}

		bid.WaitingResponse = false
		bid.Accepted = accept
		g.EnvidoSettled = true

		if !accept {
			c.logger.Info("bid answered",
				slog.String("room_id", string(g.RoomID)),
				slog.String("bid", string(model.BidEnvido)),
				slog.String("player_id", string(playerID)),
				slog.Bool("accepted", false),
			)
			c.awardPoints(g, bid.RequestingTeam, EnvidoDeclinedPoints)
			return nil
		}

		values := scoring.TeamEnvido(g)
		winner := scoring.EnvidoWinner(values[model.Team1], values[model.Team2], g.HandStarterTeam())
		bid.Result = &model.EnvidoResult{
			Team1:  values[model.Team1],
			Team2:  values[model.Team2],
			Winner: winner,
		}

		c.logger.Info("bid answered",
			slog.String("room_id", string(g.RoomID)),
			slog.String("bid", string(model.BidEnvido)),
			slog.String("player_id", string(playerID)),
			slog.Bool("accepted", true),
			slog.Int("team1_envido", values[model.Team1]),
			slog.Int("team2_envido", values[model.Team2]),
			slog.Int("winner", int(winner)),
		)
		c.awardPoints(g, winner, bid.Value)
		return nil
	})
}

// DeclareFlor records a flor held in the first round. It does not score.
func (c *Controller) DeclareFlor(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		idx, err := c.validateAction(g, playerID)
		if err != nil {
			return err
		}
		if g.Flor != nil {
			return model.ErrBidAlreadyActive
		}
		if g.CurrentRound != 1 {
			return fmt.Errorf("%w: flor is only declared in the first round", model.ErrPlayerNotEligible)
		}
		hand := g.OriginalHand(playerID)
		if !model.HasFlor(hand) {
			return fmt.Errorf("%w: hand has no flor", model.ErrPlayerNotEligible)
		}

		g.Flor = &model.FlorDeclaration{
			Level:      model.BidFlor,
			Value:      model.FlorOf(hand),
			Team:       g.Players[idx].Team,
			DeclaredBy: playerID,
		}

		c.logger.Info("flor declared",
			slog.String("room_id", string(g.RoomID)),
			slog.String("player_id", string(playerID)),
			slog.Int("value", g.Flor.Value),
		)
		return nil
	})
}

// RequestBid dispatches a bid by its wire name
func (c *Controller) RequestBid(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, kind model.BidKind) (*model.Game, error) {
	switch kind {
	case model.BidTruco:
		return c.RequestTruco(ctx, roomID, playerID)
	case model.BidRetruco:
		return c.RequestRetruco(ctx, roomID, playerID)
	case model.BidVale4:
		return c.RequestVale4(ctx, roomID, playerID)
	case model.BidEnvido:
		return c.RequestEnvido(ctx, roomID, playerID)
	case model.BidFlor:
		return c.DeclareFlor(ctx, roomID, playerID)
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedBid, kind)
}

// RespondBid dispatches a bid response by its wire name
func (c *Controller) RespondBid(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, kind model.BidKind, accept bool) (*model.Game, error) {
	switch kind {
	case model.BidTruco:
		return c.RespondToTruco(ctx, roomID, playerID, accept)
	case model.BidRetruco:
		return c.RespondToRetruco(ctx, roomID, playerID, accept)
	case model.BidVale4:
		return c.RespondToVale4(ctx, roomID, playerID, accept)
	case model.BidEnvido:
		return c.RespondToEnvido(ctx, roomID, playerID, accept)
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedBid, kind)
}
