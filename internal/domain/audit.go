package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is an append-only trail entry. Records are written in the
// same transaction as the mutation they describe and are never updated
// or deleted afterwards.
type AuditRecord struct {
	ID          int64
	AccountID   *int64
	ItemID      *int64
	Action      AuditAction
	EntityType  EntityType
	EntityID    *int64
	OldValues   []byte
	NewValues   []byte
	Description string
	IPAddress   *string
	SessionID   *uuid.UUID
	CreatedAt   time.Time

	// Denormalized for listings.
	Username string
}
