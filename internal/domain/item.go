package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a perishable stock line tracked by the shop.
// Quantity and costs use exact decimals so valuation math never drifts.
type InventoryItem struct {
	ID             int64
	Name           string
	Category       string
	Description    *string
	Quantity       decimal.Decimal
	Unit           string
	MinThreshold   decimal.Decimal
	UnitCost       decimal.Decimal
	ExpirationDate *time.Time
	Location       *string
	IsDeleted      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Field length limits for inventory items.
const (
	ItemNameMinLen        = 2
	ItemNameMaxLen        = 150
	ItemUnitMaxLen        = 20
	ItemLocationMaxLen    = 100
	ItemDescriptionMaxLen = 500
	WasteNotesMaxLen      = 500
)

var itemNameRe = regexp.MustCompile(`^[a-zA-Z0-9\s\-\(\)]+$`)

// ValidateItemName checks length and charset of an item name.
func ValidateItemName(name string) *FieldError {
	if len(name) < ItemNameMinLen || len(name) > ItemNameMaxLen {
		return &FieldError{Field: "name", Message: "must be between 2 and 150 characters"}
	}
	if !itemNameRe.MatchString(name) {
		return &FieldError{Field: "name", Message: "may contain only letters, digits, spaces, hyphens and parentheses"}
	}
	return nil
}

// TotalValue returns quantity multiplied by unit cost.
func (i *InventoryItem) TotalValue() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

// IsExpired reports whether the expiration date has passed relative to
// the given day. Items without an expiration date never expire.
func (i *InventoryItem) IsExpired(now time.Time) bool {
	if i.ExpirationDate == nil {
		return false
	}
	return i.ExpirationDate.Before(dateOf(now))
}

// ComputeStatus derives the display status of an item. Precedence is
// fixed: Expired beats Expiring beats Low beats OK, so a low-stock item
// past its date always reads Expired.
func ComputeStatus(item *InventoryItem, now time.Time, expiringWindow time.Duration) ItemStatus {
	if item.IsExpired(now) {
		return ItemStatusExpired
	}
	if item.ExpirationDate != nil {
		cutoff := dateOf(now).Add(expiringWindow)
		if !item.ExpirationDate.After(cutoff) {
			return ItemStatusExpiring
		}
	}
	if item.Quantity.LessThan(item.MinThreshold) {
		return ItemStatusLow
	}
	return ItemStatusOK
}

// dateOf truncates a timestamp to midnight UTC. Expiration is tracked
// at day granularity.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
