package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WasteLog records stock that was discarded. Each row corresponds to
// exactly one negative stock adjustment applied in the same
// transaction.
type WasteLog struct {
	ID        int64
	ItemID    int64
	AccountID int64
	Quantity  decimal.Decimal
	Reason    WasteReason
	Notes     *string
	CreatedAt time.Time

	// Denormalized for listings; populated by joins, never stored.
	ItemName string
	Username string
}

// Cost returns the value lost, given the item's unit cost at read time.
func (w *WasteLog) Cost(unitCost decimal.Decimal) decimal.Decimal {
	return w.Quantity.Mul(unitCost)
}
