package storage

import (
	"context"

	"github.com/mcoot/trucogame-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.PlayerID) (*model.Account, error)
	DeleteAccount(ctx context.Context, id model.PlayerID) error

	// Registered account operations
	SaveRegisteredAccount(ctx context.Context, ra *model.RegisteredAccount) error
	GetRegisteredAccountByUsername(ctx context.Context, username string) (*model.RegisteredAccount, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Game operations, keyed by room
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.RoomID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.RoomID) error
	GameExists(ctx context.Context, id model.RoomID) (bool, error)
	ListGames(ctx context.Context) ([]*model.Game, error)
}
