package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a signed-in account's session. Its identifier rides inside
// the access token and is stamped on every audit record the session
// produces.
type Session struct {
	ID        uuid.UUID
	AccountID int64
	Role      Role
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the session has been revoked.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsExpired returns true if the session has expired relative to now.
func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
