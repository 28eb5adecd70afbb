package game

import (
	"log/slog"
	"time"

	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/scoring"
)

func (c *Controller) startGame(g *model.Game) error {
	g.Status = model.GameStatusPlaying
	g.HandStarter = 0
	g.Winner = model.NoTeam

	c.logger.Info("game started",
		slog.String("room_id", string(g.RoomID)),
		slog.Int("player_count", len(g.Players)),
	)
	return c.dealHand(g)
}

// dealHand clears every per-hand field and deals a fresh hand. The hand
// starter leads.
func (c *Controller) dealHand(g *model.Game) error {
	deck := c.dealer.NewShuffledDeck()
	hands, err := deck.Deal(len(g.Players), model.CardsPerHand)
	if err != nil {
		return err
	}
	g.Deck = deck
	for i := range g.Players {
		g.Players[i].Hand = hands[i]
	}

	for i := range g.Teams {
		g.Teams[i].RoundsWon = 0
	}
	g.Rounds = nil
	g.Table = nil
	g.Truco = nil
	g.TrucoDeclined = false
	g.Envido = nil
	g.EnvidoSettled = false
	g.Flor = nil
	g.Pending = nil
	g.CurrentRound = 1
	g.HandValue = 1
	g.HandNumber++
	c.setTurn(g, g.HandStarter)

	c.logger.Info("hand dealt",
		slog.String("room_id", string(g.RoomID)),
		slog.Int("hand", g.HandNumber),
		slog.Int("starter", g.HandStarter),
	)
	return nil
}

// abandonHand drops the hand in progress without scoring it
func (c *Controller) abandonHand(g *model.Game) {
	for i := range g.Players {
		g.Players[i].Hand = nil
	}
	for i := range g.Teams {
		g.Teams[i].RoundsWon = 0
	}
	g.Deck = model.Deck{}
	g.Rounds = nil
	g.Table = nil
	g.Truco = nil
	g.TrucoDeclined = false
	g.Envido = nil
	g.EnvidoSettled = false
	g.Flor = nil
	g.Pending = nil
	g.CurrentRound = 1
	g.HandValue = 1
	clearTurn(g)
}

func (c *Controller) setTurn(g *model.Game, seat int) {
	g.CurrentTurn = seat
	for i := range g.Players {
		g.Players[i].IsCurrentPlayer = i == seat
	}
}

func clearTurn(g *model.Game) {
	for i := range g.Players {
		g.Players[i].IsCurrentPlayer = false
	}
}

// hasPlayed reports whether the seat already has a card on the table
func hasPlayed(g *model.Game, seat int) bool {
	id := g.Players[seat].ID
	for _, pc := range g.Table {
		if pc.PlayerID == id {
			return true
		}
	}
	return false
}

// nextToPlay returns the first seat after from that has not played this
// round, or -1 once everyone has
func (c *Controller) nextToPlay(g *model.Game, from int) int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		seat := (from + step) % n
		if !hasPlayed(g, seat) {
			return seat
		}
	}
	return -1
}

func (c *Controller) resolveRound(g *model.Game, now time.Time) {
	result := model.RoundResult{Round: g.CurrentRound, Winner: model.NoTeam}
	nextLeader := g.HandStarter

	idx, tied := scoring.RoundWinner(g.Table)
	if !tied && idx >= 0 {
		top := g.Table[idx]
		result.Winner = top.Team
		result.WinnerPlayer = top.PlayerID
		g.Team(top.Team).RoundsWon++
		nextLeader = g.PlayerIndex(top.PlayerID)
	}
	g.Rounds = append(g.Rounds, result)

	c.logger.Info("round resolved",
		slog.String("room_id", string(g.RoomID)),
		slog.Int("round", result.Round),
		slog.Int("winner", int(result.Winner)),
		slog.Bool("tied", result.Tied()),
	)

	if team, decided := scoring.HandWinner(g.Rounds, g.HandStarterTeam()); decided {
		c.endHand(g, team, now)
		return
	}
	if g.CurrentRound >= scoring.HandRounds {
		c.endHand(g, model.NoTeam, now)
		return
	}

	clearTurn(g)
	g.Pending = &model.PendingTransition{
		Kind:       model.TransitionRoundClear,
		DueAt:      now.Add(c.settleDelay),
		NextLeader: nextLeader,
	}
}

// endHand scores the hand for team (NoTeam scores nothing) and schedules the
// redeal unless the game is over
func (c *Controller) endHand(g *model.Game, team model.TeamID, now time.Time) {
	if team != model.NoTeam {
		c.awardPoints(g, team, g.HandValue)
	}

	c.logger.Info("hand ended",
		slog.String("room_id", string(g.RoomID)),
		slog.Int("hand", g.HandNumber),
		slog.Int("winner", int(team)),
		slog.Int("hand_value", g.HandValue),
	)

	clearTurn(g)
	if g.Status == model.GameStatusFinished {
		g.Pending = nil
		return
	}
	g.Pending = &model.PendingTransition{
		Kind:  model.TransitionHandRedeal,
		DueAt: now.Add(c.settleDelay),
	}
}

// awardPoints adds to a team's score and ends the game once the target is
// reached. On equal scores the team that just scored wins.
func (c *Controller) awardPoints(g *model.Game, team model.TeamID, points int) {
	t := g.Team(team)
	t.Score += points

	t1, t2 := g.Teams[0].Score, g.Teams[1].Score
	if max(t1, t2) < g.TargetScore {
		return
	}

	g.Winner = team
	switch {
	case t1 > t2:
		g.Winner = model.Team1
	case t2 > t1:
		g.Winner = model.Team2
	}
	g.Status = model.GameStatusFinished
	g.Pending = nil
	clearTurn(g)

	c.logger.Info("game finished",
		slog.String("room_id", string(g.RoomID)),
		slog.Int("winner", int(g.Winner)),
		slog.Int("team1_score", t1),
		slog.Int("team2_score", t2),
	)
}

// settle applies the pending transition once it is due
func (c *Controller) settle(g *model.Game, now time.Time) (bool, error) {
	p := g.Pending
	if p == nil || now.Before(p.DueAt) {
		return false, nil
	}
	g.Pending = nil

	switch p.Kind {
	case model.TransitionRoundClear:
		g.Table = nil
		g.CurrentRound++
		c.setTurn(g, p.NextLeader)
	case model.TransitionHandRedeal:
		g.HandStarter = g.NextSeat(g.HandStarter)
		if err := c.dealHand(g); err != nil {
			return true, err
		}
	}
	return true, nil
}
