package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/trucogame-go/internal/dependencies/clock"
	"github.com/mcoot/trucogame-go/internal/dependencies/random"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/storage"
)

const (
	tokenLength    = 32
	playerIDLength = 16

	// MinPasswordLength is the shortest password RegisterPlayer accepts
	MinPasswordLength = 6
	// MaxDisplayNameLength caps the display name shown at the table
	MaxDisplayNameLength = 32
)

// Errors
var (
	ErrInvalidDisplayName = errors.New("display name must be 1-32 characters")
	ErrInvalidUsername    = errors.New("username must not be empty")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// Service handles accounts and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         store,
		clock:           clk,
		random:          rnd,
		logger:          logger.With(slog.String("component", "auth")),
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateGuest creates an anonymous account and session
func (s *Service) CreateGuest(ctx context.Context, displayName string) (*model.Session, error) {
	displayName, err := cleanDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:          s.newPlayerID(),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("guest created", slog.String("player_id", string(account.ID)))
	return s.createSession(ctx, account)
}

// Register creates a registered account and session
func (s *Service) Register(ctx context.Context, username, password, displayName string) (*model.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}
	displayName, err := cleanDisplayName(displayName)
	if err != nil {
		return nil, err
	}

	_, err = s.storage.GetRegisteredAccountByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &model.Account{
		ID:          s.newPlayerID(),
		DisplayName: displayName,
		CreatedAt:   now,
	}
	registered := &model.RegisteredAccount{
		PlayerID:     account.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	if err := s.storage.SaveRegisteredAccount(ctx, registered); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(account.ID)),
		slog.String("username", username),
	)
	return s.createSession(ctx, account)
}

// Login authenticates a registered account and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	ra, err := s.storage.GetRegisteredAccountByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ra.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	account, err := s.storage.GetAccount(ctx, ra.PlayerID)
	if err != nil {
		return nil, err
	}

	return s.createSession(ctx, account)
}

// ValidateSession returns the session for token. Expired sessions are
// deleted on sight.
func (s *Service) ValidateSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, model.ErrSessionNotFound
	}
	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.Expired(s.clock.Now()) {
		_ = s.storage.DeleteSession(ctx, token)
		return nil, model.ErrSessionExpired
	}

	return session, nil
}

// Logout removes a session
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.storage.DeleteSession(ctx, token)
}

func (s *Service) createSession(ctx context.Context, account *model.Account) (*model.Session, error) {
	now := s.clock.Now()
	session := &model.Session{
		Token:     "sess_" + s.random.String(tokenLength, random.TokenAlphabet),
		PlayerID:  account.ID,
		Account:   *account,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) newPlayerID() model.PlayerID {
	return model.PlayerID("p_" + s.random.String(playerIDLength, random.TokenAlphabet))
}

func cleanDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > MaxDisplayNameLength {
		return "", ErrInvalidDisplayName
	}
	return name, nil
}
