package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{ID: "p1", DisplayName: "Alice", IsGuest: true, CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, account))

	got, err := s.storage.GetAccount(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestRegisteredAccountByUsername() {
	_ = s.storage.SaveRegisteredAccount(s.ctx, &model.RegisteredAccount{PlayerID: "p1", Username: "alice"})

	got, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), got.PlayerID)

	_, err = s.storage.GetRegisteredAccountByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSessions() {
	_ = s.storage.SaveSession(s.ctx, &model.Session{Token: "tok", PlayerID: "p1"})

	got, err := s.storage.GetSession(s.ctx, "tok")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), got.PlayerID)

	_ = s.storage.DeleteSession(s.ctx, "tok")
	_, err = s.storage.GetSession(s.ctx, "tok")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestGamesAreIsolatedCopies() {
	game := model.NewGame("ROOM01", "Mesa", 2, time.Now())
	game.Players = []model.Player{{ID: "p1", Hand: []model.Card{{Rank: model.RankAce, Suit: model.SuitEspadas}}}}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	game.Players[0].Hand[0] = model.Card{Rank: model.RankFour, Suit: model.SuitCopas}

	got, err := s.storage.GetGame(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(model.RankAce, got.Players[0].Hand[0].Rank)

	got.Status = model.GameStatusFinished
	again, _ := s.storage.GetGame(s.ctx, "ROOM01")
	s.Equal(model.GameStatusWaiting, again.Status)
}

func (s *StorageSuite) TestGameNotFoundAndDelete() {
	_, err := s.storage.GetGame(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrRoomNotFound)

	_ = s.storage.SaveGame(s.ctx, model.NewGame("ROOM01", "Mesa", 2, time.Now()))
	exists, _ := s.storage.GameExists(s.ctx, "ROOM01")
	s.True(exists)

	_ = s.storage.DeleteGame(s.ctx, "ROOM01")
	exists, _ = s.storage.GameExists(s.ctx, "ROOM01")
	s.False(exists)
}

func (s *StorageSuite) TestListGamesOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveGame(s.ctx, model.NewGame("B", "second", 2, base.Add(time.Second)))
	_ = s.storage.SaveGame(s.ctx, model.NewGame("A", "first", 4, base))

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.RoomID("A"), games[0].RoomID)
	s.Equal(model.RoomID("B"), games[1].RoomID)
}
