package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/trucogame-go/internal/model"
)

// RequestTruco raises the hand to 2. The next seat answers. Once a truco
// has been declined the hand cannot be raised again.
func (c *Controller) RequestTruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		idx, err := c.validateAction(g, playerID)
		if err != nil {
			return err
		}
		if g.Truco != nil || g.HandValue >= model.BidTruco.TrucoValue() {
			return fmt.Errorf("%w: the hand has already been raised", model.ErrBidAlreadyActive)
		}
		if g.TrucoDeclined {
			return fmt.Errorf("%w: truco was already declined this hand", model.ErrBidAlreadyActive)
		}
		if g.Envido != nil && g.Envido.WaitingResponse {
			return fmt.Errorf("%w: envido awaits a response", model.ErrBidAlreadyActive)
		}

		c.installTruco(g, model.BidTruco, idx)
		return nil
	})
}

// RequestRetruco raises an accepted truco to 3. Only the team that received
// the truco may raise it.
func (c *Controller) RequestRetruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		idx, err := c.validateAction(g, playerID)
		if err != nil {
			return err
		}
		if g.Truco == nil {
			return fmt.Errorf("%w: no accepted truco to raise", model.ErrPlayerNotEligible)
		}
		if g.Truco.Pending() || g.Truco.Level != model.BidTruco {
			return model.ErrBidAlreadyActive
		}
		if g.Players[idx].Team == g.Truco.RequestingTeam {
			return fmt.Errorf("%w: the truco team cannot raise its own bid", model.ErrPlayerNotEligible)
		}

		c.installTruco(g, model.BidRetruco, idx)
		return nil
	})
}

// RequestVale4 raises an accepted retruco to 4. Only the seat that answered
// the retruco may raise it, and only on its own turn, which it keeps.
func (c *Controller) RequestVale4(ctx context.Context, roomID model.RoomID, playerID model.PlayerID) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		idx, err := c.validateAction(g, playerID)
		if err != nil {
			return err
		}
		if g.Truco == nil || g.Truco.Level == model.BidTruco {
			return fmt.Errorf("%w: no accepted retruco to raise", model.ErrPlayerNotEligible)
		}
		if g.Truco.Pending() || g.Truco.Level == model.BidVale4 {
			return model.ErrBidAlreadyActive
		}
		if g.Truco.Responder != playerID {
			return fmt.Errorf("%w: only the retruco responder may raise", model.ErrPlayerNotEligible)
		}
		if g.CurrentTurn != idx {
			return model.ErrNotYourTurn
		}

		c.installTruco(g, model.BidVale4, idx)
		return nil
	})
}

// installTruco replaces the truco slot with a new pending bid answered by
// the seat after the requester
func (c *Controller) installTruco(g *model.Game, level model.BidKind, seat int) {
	requester := g.Players[seat]
	responder := g.Players[g.NextSeat(seat)]
	g.Truco = &model.TrucoBid{
		Level:          level,
		Value:          level.TrucoValue(),
		RequestedBy:    requester.ID,
		RequestingTeam: requester.Team,
		Responder:      responder.ID,
	}

	c.logger.Info("bid requested",
		slog.String("room_id", string(g.RoomID)),
		slog.String("bid", string(level)),
		slog.String("player_id", string(requester.ID)),
		slog.String("responder", string(responder.ID)),
	)
}

// RespondToTruco answers a pending truco
func (c *Controller) RespondToTruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, accept bool) (*model.Game, error) {
	return c.respondTruco(ctx, roomID, playerID, model.BidTruco, accept)
}

// RespondToRetruco answers a pending retruco
func (c *Controller) RespondToRetruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, accept bool) (*model.Game, error) {
	return c.respondTruco(ctx, roomID, playerID, model.BidRetruco, accept)
}

// RespondToVale4 answers a pending vale quatro
func (c *Controller) RespondToVale4(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, accept bool) (*model.Game, error) {
	return c.respondTruco(ctx, roomID, playerID, model.BidVale4, accept)
}

// respondTruco accepts or declines the pending truco-family bid at level.
// Accepting sets the hand value and hands the turn back to the requester.
// Declining scores the previous value for the requesting team and the hand
// carries on at its current value with no further raises.
func (c *Controller) respondTruco(ctx context.Context, roomID model.RoomID, playerID model.PlayerID, level model.BidKind, accept bool) (*model.Game, error) {
	return c.update(ctx, roomID, func(g *model.Game, now time.Time) error {
		if _, err := c.validateAction(g, playerID); err != nil {
			return err
		}
		bid := g.Truco
		if !bid.Pending() || bid.Level != level {
			return fmt.Errorf("%w: %s", model.ErrNoPendingBid, level)
		}
		if bid.RequestedBy == playerID {
			return model.ErrRequesterCannotRespond
		}
		if bid.Responder != playerID {
			return model.ErrWrongResponder
		}

		c.logger.Info("bid answered",
			slog.String("room_id", string(g.RoomID)),
			slog.String("bid", string(level)),
			slog.String("player_id", string(playerID)),
			slog.Bool("accepted", accept),
		)

		if !accept {
			g.Truco = nil
			g.TrucoDeclined = true
			c.awardPoints(g, bid.RequestingTeam, bid.Value-1)
			return nil
		}

		bid.Accepted = true
		g.HandValue = bid.Value
		// A requester who already played this round keeps waiting for the
		// seats that have not
		if seat := g.PlayerIndex(bid.RequestedBy); seat >= 0 && !hasPlayed(g, seat) {
			c.setTurn(g, seat)
		}
		return nil
	})
}
