package game

import (
	"github.com/mcoot/trucogame-go/internal/model"
)

// Truco family tests

func (s *ControllerSuite) TestTrucoAcceptRaisesHandAndReturnsTurn() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	g, err := s.controller.RequestTruco(s.ctx, testRoom, pid(2))
	s.Require().NoError(err)
	s.Require().NotNil(g.Truco)
	s.Equal(model.BidTruco, g.Truco.Level)
	s.Equal(pid(1), g.Truco.Responder)
	s.Equal(model.Team2, g.Truco.RequestingTeam)
	s.Equal(1, g.HandValue)

	g, err = s.controller.RespondToTruco(s.ctx, testRoom, pid(1), true)
	s.Require().NoError(err)
	s.Equal(2, g.HandValue)
	s.True(g.Truco.Accepted)
	s.Equal(1, g.CurrentTurn, "turn returns to the requester")
	s.True(g.Players[1].IsCurrentPlayer)
}

func (s *ControllerSuite) TestTrucoDeclineScoresOneAndHandContinues() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	_, err := s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	g, err := s.controller.RespondToTruco(s.ctx, testRoom, pid(2), false)
	s.Require().NoError(err)

	s.Nil(g.Truco)
	s.Equal(1, g.HandValue)
	s.Equal(1, g.Teams[0].Score)
	s.Equal(0, g.Teams[1].Score)
	s.Equal(0, g.CurrentTurn)
	s.Len(g.Players[0].Hand, 3)

	s.play(pid(1), handManilha[0])
}

func (s *ControllerSuite) TestRequesterCannotPlayThroughOwnTruco() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	_, err := s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)

	_, err = s.controller.PlayCard(s.ctx, testRoom, pid(1), handManilha[0])
	s.ErrorIs(err, model.ErrAwaitingResponse)
}

func (s *ControllerSuite) TestTrucoResponseErrors() {
	s.seat(4, 4)
	s.start(
		[]model.Card{card(model.RankFour, model.SuitCopas), card(model.RankFive, model.SuitCopas), card(model.RankSix, model.SuitPaus)},
		[]model.Card{card(model.RankFour, model.SuitPaus), card(model.RankFive, model.SuitPaus), card(model.RankSix, model.SuitEspadas)},
		[]model.Card{card(model.RankFour, model.SuitEspadas), card(model.RankFive, model.SuitEspadas), card(model.RankSix, model.SuitOuros)},
		[]model.Card{card(model.RankFour, model.SuitOuros), card(model.RankFive, model.SuitOuros), card(model.RankSix, model.SuitCopas)},
	)

	_, err := s.controller.RespondToTruco(s.ctx, testRoom, pid(2), true)
	s.ErrorIs(err, model.ErrNoPendingBid)

	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)

	_, err = s.controller.RespondToTruco(s.ctx, testRoom, pid(1), true)
	s.ErrorIs(err, model.ErrRequesterCannotRespond)

	_, err = s.controller.RespondToTruco(s.ctx, testRoom, pid(4), true)
	s.ErrorIs(err, model.ErrWrongResponder)

	_, err = s.controller.RespondToRetruco(s.ctx, testRoom, pid(2), true)
	s.ErrorIs(err, model.ErrNoPendingBid)

	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(3))
	s.ErrorIs(err, model.ErrBidAlreadyActive)
}

func (s *ControllerSuite) TestTrucoCannotBeCalledTwiceInAHand() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	_, err := s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	_, err = s.controller.RespondToTruco(s.ctx, testRoom, pid(2), true)
	s.Require().NoError(err)

	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrBidAlreadyActive)
}

func (s *ControllerSuite) TestDeclinedTrucoCannotBeCalledAgainThisHand() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	_, err := s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	_, err = s.controller.RespondToTruco(s.ctx, testRoom, pid(2), false)
	s.Require().NoError(err)

	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.ErrorIs(err, model.ErrBidAlreadyActive)
	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrBidAlreadyActive)

	g := s.game()
	s.Equal(1, g.Teams[0].Score)
	s.Equal(model.GameStatusPlaying, g.Status)
	s.True(g.TrucoDeclined)

	// the hand plays on and the next deal clears the flag
	s.play(pid(1), handManilha[0])
	s.play(pid(2), handThrees[0])
	s.settle()
	s.play(pid(1), handManilha[2])
	s.play(pid(2), handThrees[1])
	s.dealer.push(stackDeck(handManilha, handThrees))
	s.settle()

	g = s.game()
	s.Equal(2, g.HandNumber)
	s.False(g.TrucoDeclined)
	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(2))
	s.NoError(err)
}

func (s *ControllerSuite) TestAcceptedTrucoKeepsTurnWhenRequesterAlreadyPlayed() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)
	s.play(pid(1), handManilha[1])

	_, err := s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	g, err := s.controller.RespondToTruco(s.ctx, testRoom, pid(2), true)
	s.Require().NoError(err)
	s.Equal(1, g.CurrentTurn)

	s.play(pid(2), handThrees[1])
	g = s.game()
	s.Len(g.Rounds, 1)
}

// climbLadder takes the hand to an accepted retruco. p2 calls truco, p1
// raises to retruco and p2 accepts, so p2 may answer with vale quatro once
// p1 has played.
func (s *ControllerSuite) climbLadder() {
	_, err := s.controller.RequestTruco(s.ctx, testRoom, pid(2))
	s.Require().NoError(err)
	g, err := s.controller.RespondToTruco(s.ctx, testRoom, pid(1), true)
	s.Require().NoError(err)
	s.Equal(1, g.CurrentTurn)

	g, err = s.controller.RequestRetruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	s.Equal(model.BidRetruco, g.Truco.Level)
	s.Equal(pid(2), g.Truco.Responder)

	g, err = s.controller.RespondToRetruco(s.ctx, testRoom, pid(2), true)
	s.Require().NoError(err)
	s.Equal(3, g.HandValue)
	s.Equal(0, g.CurrentTurn)
}

func (s *ControllerSuite) TestFullTrucoLadder() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)
	s.climbLadder()

	snap, err := s.controller.GetGameState(s.ctx, testRoom)
	s.Require().NoError(err)
	s.Nil(snap.Truco, "raising replaces the truco state")
	s.NotNil(snap.Retruco)

	_, err = s.controller.RequestVale4(s.ctx, testRoom, pid(1))
	s.ErrorIs(err, model.ErrPlayerNotEligible)

	_, err = s.controller.RequestVale4(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrNotYourTurn)

	s.play(pid(1), handManilha[0])

	g, err := s.controller.RequestVale4(s.ctx, testRoom, pid(2))
	s.Require().NoError(err)
	s.Equal(model.BidVale4, g.Truco.Level)
	s.Equal(pid(1), g.Truco.Responder)
	s.Equal(1, g.CurrentTurn, "the vale quatro caller keeps the turn")

	g, err = s.controller.RespondToVale4(s.ctx, testRoom, pid(1), true)
	s.Require().NoError(err)
	s.Equal(4, g.HandValue)
	s.Equal(1, g.CurrentTurn)

	_, err = s.controller.RequestVale4(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrBidAlreadyActive)
}

func (s *ControllerSuite) TestRetrucoDeclineScoresTwo() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	_, err := s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	_, err = s.controller.RespondToTruco(s.ctx, testRoom, pid(2), true)
	s.Require().NoError(err)
	_, err = s.controller.RequestRetruco(s.ctx, testRoom, pid(2))
	s.Require().NoError(err)

	g, err := s.controller.RespondToRetruco(s.ctx, testRoom, pid(1), false)
	s.Require().NoError(err)
	s.Nil(g.Truco)
	s.Equal(2, g.HandValue)
	s.Equal(2, g.Teams[1].Score)
}

func (s *ControllerSuite) TestVale4DeclineScoresThree() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)
	s.climbLadder()
	s.play(pid(1), handManilha[0])

	_, err := s.controller.RequestVale4(s.ctx, testRoom, pid(2))
	s.Require().NoError(err)

	g, err := s.controller.RespondToVale4(s.ctx, testRoom, pid(1), false)
	s.Require().NoError(err)
	s.Equal(3, g.HandValue)
	s.Equal(3, g.Teams[1].Score)
}

func (s *ControllerSuite) TestRetrucoEligibility() {
	s.seat(4, 4)
	s.start(
		[]model.Card{card(model.RankFour, model.SuitCopas), card(model.RankFive, model.SuitCopas), card(model.RankSix, model.SuitPaus)},
		[]model.Card{card(model.RankFour, model.SuitPaus), card(model.RankFive, model.SuitPaus), card(model.RankSix, model.SuitEspadas)},
		[]model.Card{card(model.RankFour, model.SuitEspadas), card(model.RankFive, model.SuitEspadas), card(model.RankSix, model.SuitOuros)},
		[]model.Card{card(model.RankFour, model.SuitOuros), card(model.RankFive, model.SuitOuros), card(model.RankSix, model.SuitCopas)},
	)

	_, err := s.controller.RequestRetruco(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrPlayerNotEligible)

	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)

	_, err = s.controller.RequestRetruco(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrBidAlreadyActive, "truco still awaits an answer")

	_, err = s.controller.RespondToTruco(s.ctx, testRoom, pid(2), true)
	s.Require().NoError(err)

	_, err = s.controller.RequestRetruco(s.ctx, testRoom, pid(3))
	s.ErrorIs(err, model.ErrPlayerNotEligible)

	g, err := s.controller.RequestRetruco(s.ctx, testRoom, pid(4))
	s.Require().NoError(err)
	s.Equal(pid(1), g.Truco.Responder)
}

func (s *ControllerSuite) TestVale4NeedsAcceptedRetruco() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	_, err := s.controller.RequestVale4(s.ctx, testRoom, pid(1))
	s.ErrorIs(err, model.ErrPlayerNotEligible)

	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	_, err = s.controller.RespondToTruco(s.ctx, testRoom, pid(2), true)
	s.Require().NoError(err)

	_, err = s.controller.RequestVale4(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrPlayerNotEligible)
}

func (s *ControllerSuite) TestTrucoDeclineCanFinishTheGame() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)
	s.setScores(11, 0)

	_, err := s.controller.RequestTruco(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	g, err := s.controller.RespondToTruco(s.ctx, testRoom, pid(2), false)
	s.Require().NoError(err)

	s.Equal(model.GameStatusFinished, g.Status)
	s.Equal(model.Team1, g.Winner)
}

// Envido and flor tests

var (
	handEnvido33 = []model.Card{card(model.RankSeven, model.SuitOuros), card(model.RankSix, model.SuitOuros), card(model.RankAce, model.SuitPaus)}
	handEnvido29 = []model.Card{card(model.RankFour, model.SuitCopas), card(model.RankFive, model.SuitCopas), card(model.RankRei, model.SuitPaus)}
)

func (s *ControllerSuite) TestEnvidoAcceptScoresHigherTeam() {
	s.seat(2, 2)
	s.start(handEnvido29, handEnvido33)

	g, err := s.controller.RequestEnvido(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	s.Require().NotNil(g.Envido)
	s.True(g.Envido.WaitingResponse)
	s.Equal(model.Team2, g.Envido.RespondingTeam)

	_, err = s.controller.PlayCard(s.ctx, testRoom, pid(1), handEnvido29[0])
	s.ErrorIs(err, model.ErrAwaitingResponse)

	g, err = s.controller.RespondToEnvido(s.ctx, testRoom, pid(2), true)
	s.Require().NoError(err)
	s.False(g.Envido.WaitingResponse)
	s.True(g.EnvidoSettled)
	s.Require().NotNil(g.Envido.Result)
	s.Equal(29, g.Envido.Result.Team1)
	s.Equal(33, g.Envido.Result.Team2)
	s.Equal(model.Team2, g.Envido.Result.Winner)
	s.Equal(0, g.Teams[0].Score)
	s.Equal(2, g.Teams[1].Score)

	s.play(pid(1), handEnvido29[0])
}

func (s *ControllerSuite) TestEnvidoDeclineScoresOne() {
	s.seat(2, 2)
	s.start(handEnvido29, handEnvido33)

	_, err := s.controller.RequestEnvido(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	g, err := s.controller.RespondToEnvido(s.ctx, testRoom, pid(2), false)
	s.Require().NoError(err)

	s.Nil(g.Envido.Result)
	s.Equal(1, g.Teams[0].Score)

	_, err = s.controller.RequestEnvido(s.ctx, testRoom, pid(1))
	s.ErrorIs(err, model.ErrPlayerNotEligible)
}

func (s *ControllerSuite) TestEnvidoTieGoesToHandStarter() {
	s.seat(2, 2)
	s.start(
		[]model.Card{card(model.RankFour, model.SuitCopas), card(model.RankFive, model.SuitCopas), card(model.RankRei, model.SuitPaus)},
		[]model.Card{card(model.RankFour, model.SuitOuros), card(model.RankFive, model.SuitOuros), card(model.RankRei, model.SuitEspadas)},
	)
	s.play(pid(1), card(model.RankRei, model.SuitPaus))

	_, err := s.controller.RequestEnvido(s.ctx, testRoom, pid(2))
	s.Require().NoError(err)
	g, err := s.controller.RespondToEnvido(s.ctx, testRoom, pid(1), true)
	s.Require().NoError(err)

	s.Equal(29, g.Envido.Result.Team1)
	s.Equal(29, g.Envido.Result.Team2)
	s.Equal(model.Team1, g.Envido.Result.Winner)
	s.Equal(2, g.Teams[0].Score)
}

func (s *ControllerSuite) TestEnvidoEligibility() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	_, err := s.controller.RequestEnvido(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrNotYourTurn)

	_, err = s.controller.RespondToEnvido(s.ctx, testRoom, pid(2), true)
	s.ErrorIs(err, model.ErrNoPendingBid)

	_, err = s.controller.RequestEnvido(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)

	_, err = s.controller.RequestEnvido(s.ctx, testRoom, pid(1))
	s.ErrorIs(err, model.ErrBidAlreadyActive)

	_, err = s.controller.RequestTruco(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrBidAlreadyActive)

	_, err = s.controller.RespondToEnvido(s.ctx, testRoom, pid(1), true)
	s.ErrorIs(err, model.ErrRequesterCannotRespond)
}

func (s *ControllerSuite) TestEnvidoWrongTeamInFourSeatGame() {
	s.seat(4, 4)
	s.start(
		[]model.Card{card(model.RankFour, model.SuitCopas), card(model.RankFive, model.SuitCopas), card(model.RankSix, model.SuitPaus)},
		[]model.Card{card(model.RankFour, model.SuitPaus), card(model.RankFive, model.SuitPaus), card(model.RankSix, model.SuitEspadas)},
		[]model.Card{card(model.RankFour, model.SuitEspadas), card(model.RankFive, model.SuitEspadas), card(model.RankSix, model.SuitOuros)},
		[]model.Card{card(model.RankFour, model.SuitOuros), card(model.RankFive, model.SuitOuros), card(model.RankSix, model.SuitCopas)},
	)

	_, err := s.controller.RequestEnvido(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)

	_, err = s.controller.RespondToEnvido(s.ctx, testRoom, pid(3), true)
	s.ErrorIs(err, model.ErrWrongResponder)

	// either opponent may answer
	g, err := s.controller.RespondToEnvido(s.ctx, testRoom, pid(4), true)
	s.Require().NoError(err)
	s.Equal(29, g.Envido.Result.Team1)
	s.Equal(29, g.Envido.Result.Team2)
	s.Equal(model.Team1, g.Envido.Result.Winner)
}

func (s *ControllerSuite) TestEnvidoOnlyInRoundOne() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)
	s.play(pid(1), handManilha[0])
	s.play(pid(2), handThrees[0])
	s.settle()

	_, err := s.controller.RequestEnvido(s.ctx, testRoom, pid(1))
	s.ErrorIs(err, model.ErrPlayerNotEligible)
}

func (s *ControllerSuite) TestDeclareFlor() {
	s.seat(2, 2)
	flor := []model.Card{card(model.RankSeven, model.SuitOuros), card(model.RankSix, model.SuitOuros), card(model.RankAce, model.SuitOuros)}
	s.start(flor, handThrees)

	_, err := s.controller.DeclareFlor(s.ctx, testRoom, pid(2))
	s.ErrorIs(err, model.ErrPlayerNotEligible)

	// a card already on the table still counts toward the flor
	s.play(pid(1), card(model.RankAce, model.SuitOuros))

	g, err := s.controller.DeclareFlor(s.ctx, testRoom, pid(1))
	s.Require().NoError(err)
	s.Require().NotNil(g.Flor)
	s.Equal(34, g.Flor.Value)
	s.Equal(model.Team1, g.Flor.Team)
	s.Equal(pid(1), g.Flor.DeclaredBy)
	s.Equal(0, g.Teams[0].Score, "declaring flor does not score")

	_, err = s.controller.DeclareFlor(s.ctx, testRoom, pid(1))
	s.ErrorIs(err, model.ErrBidAlreadyActive)
}

func (s *ControllerSuite) TestUnsupportedTiers() {
	s.seat(2, 2)
	s.start(handManilha, handThrees)

	for _, kind := range []model.BidKind{model.BidRealEnvido, model.BidFaltaEnvido, model.BidContraFlor, model.BidContraFlorEoResto} {
		_, err := s.controller.RequestBid(s.ctx, testRoom, pid(1), kind)
		s.ErrorIs(err, model.ErrUnsupportedBid, string(kind))

		_, err = s.controller.RespondBid(s.ctx, testRoom, pid(2), kind, true)
		s.ErrorIs(err, model.ErrUnsupportedBid, string(kind))
	}

	_, err := s.controller.RespondBid(s.ctx, testRoom, pid(2), model.BidFlor, true)
	s.ErrorIs(err, model.ErrUnsupportedBid)
}

func (s *ControllerSuite) TestRequestBidDispatchesFlor() {
	s.seat(2, 2)
	flor := []model.Card{card(model.RankSeven, model.SuitOuros), card(model.RankSix, model.SuitOuros), card(model.RankAce, model.SuitOuros)}
	s.start(flor, handThrees)

	g, err := s.controller.RequestBid(s.ctx, testRoom, pid(1), model.BidFlor)
	s.Require().NoError(err)
	s.NotNil(g.Flor)
}
