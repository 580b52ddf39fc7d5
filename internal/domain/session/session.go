package session

import (
	"time"

	"github.com/google/uuid"
)

// Session binds a Principal to a live authentication token. Sessions are
// read-mostly process-wide state; every component that needs a caller
// identity receives one explicitly instead of reading ambient globals.
type Session struct {
	ID          string    `json:"id"`
	PrincipalID uuid.UUID `json:"principal_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsExpired returns true once the session has passed its expiry
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Valid reports whether the session can authenticate a call
func (s *Session) Valid() bool {
	return s != nil && s.ID != "" && !s.IsExpired()
}
