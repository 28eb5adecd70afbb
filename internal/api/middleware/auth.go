package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/trucogame-go/internal/api/apierr"
	"github.com/mcoot/trucogame-go/internal/model"
	"github.com/mcoot/trucogame-go/internal/services/auth"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
)

// Auth creates authentication middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the request. Browsers can't
// set headers on EventSource or WebSocket, so the query string is accepted too.
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}

// GetPlayer returns the authenticated account from the request context
func GetPlayer(ctx context.Context) *model.Account {
	session := GetSession(ctx)
	if session == nil {
		return nil
	}
	return &session.Account
}

// MustGetPlayer returns the authenticated account or panics
func MustGetPlayer(ctx context.Context) *model.Account {
	player := GetPlayer(ctx)
	if player == nil {
		panic("no player in context - auth middleware not applied?")
	}
	return player
}
