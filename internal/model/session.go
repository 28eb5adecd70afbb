package model

import "time"

// Session binds a bearer token to an account until it expires
type Session struct {
	Token     string
	PlayerID  PlayerID
	Account   Account
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
