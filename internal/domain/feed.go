package domain

import "time"

// FeedEvent is a human-readable line in the activity feed. The feed is
// a cache over the audit trail: it can be truncated and rebuilt without
// losing information.
type FeedEvent struct {
	ID        int64
	AccountID int64
	ItemID    *int64
	Action    string
	CreatedAt time.Time

	Username string
	ItemName *string
}
