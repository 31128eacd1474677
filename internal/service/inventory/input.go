package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/item"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// CreateItemInput holds parameters for item creation.
type CreateItemInput struct {
	Name           string
	Category       string
	Description    *string
	Quantity       decimal.Decimal
	Unit           string
	MinThreshold   decimal.Decimal
	UnitCost       decimal.Decimal
	ExpirationDate *time.Time
	Location       *string
}

// Validate checks all fields and collects all errors. Past expiration
// dates are accepted; they simply surface as Expired status.
func (i *CreateItemInput) Validate(categories []string) error {
	i.Name = strings.TrimSpace(i.Name)
	i.Category = strings.TrimSpace(i.Category)
	i.Unit = strings.TrimSpace(i.Unit)

	var errs []domain.FieldError

	if fe := domain.ValidateItemName(i.Name); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := validateCategory(i.Category, categories); fe != nil {
		errs = append(errs, *fe)
	}
	if i.Unit == "" || len(i.Unit) > domain.ItemUnitMaxLen {
		errs = append(errs, domain.FieldError{Field: "unit", Message: "must be between 1 and 20 characters"})
	}
	if i.Quantity.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if i.MinThreshold.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "min_threshold", Message: "must not be negative"})
	}
	if i.UnitCost.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "unit_cost", Message: "must not be negative"})
	}
	if i.Description != nil && len(*i.Description) > domain.ItemDescriptionMaxLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be at most 500 characters"})
	}
	if i.Location != nil && len(*i.Location) > domain.ItemLocationMaxLen {
		errs = append(errs, domain.FieldError{Field: "location", Message: "must be at most 100 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateItemInput holds the changed fields for an item update. Nil
// fields are left untouched; the whole update is all-or-nothing.
type UpdateItemInput struct {
	ID             int64
	Name           *string
	Category       *string
	Description    *string
	Quantity       *decimal.Decimal
	Unit           *string
	MinThreshold   *decimal.Decimal
	UnitCost       *decimal.Decimal
	ExpirationDate *time.Time
	// ClearExpirationDate removes the date when no replacement is given.
	ClearExpirationDate bool
	Location            *string
}

// Validate checks the supplied fields and collects all errors.
func (i *UpdateItemInput) Validate(categories []string) error {
	var errs []domain.FieldError

	if i.ID <= 0 {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Name != nil {
		*i.Name = strings.TrimSpace(*i.Name)
		if fe := domain.ValidateItemName(*i.Name); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if i.Category != nil {
		*i.Category = strings.TrimSpace(*i.Category)
		if fe := validateCategory(*i.Category, categories); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if i.Unit != nil {
		*i.Unit = strings.TrimSpace(*i.Unit)
		if *i.Unit == "" || len(*i.Unit) > domain.ItemUnitMaxLen {
			errs = append(errs, domain.FieldError{Field: "unit", Message: "must be between 1 and 20 characters"})
		}
	}
	if i.Quantity != nil && i.Quantity.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if i.MinThreshold != nil && i.MinThreshold.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "min_threshold", Message: "must not be negative"})
	}
	if i.UnitCost != nil && i.UnitCost.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "unit_cost", Message: "must not be negative"})
	}
	if i.Description != nil && len(*i.Description) > domain.ItemDescriptionMaxLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be at most 500 characters"})
	}
	if i.Location != nil && len(*i.Location) > domain.ItemLocationMaxLen {
		errs = append(errs, domain.FieldError{Field: "location", Message: "must be at most 100 characters"})
	}
	if i.ExpirationDate != nil && i.ClearExpirationDate {
		errs = append(errs, domain.FieldError{Field: "expiration_date", Message: "cannot both set and clear"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// apply copies the supplied fields onto the item.
func (i *UpdateItemInput) apply(it domain.InventoryItem) domain.InventoryItem {
	if i.Name != nil {
		it.Name = *i.Name
	}
	if i.Category != nil {
		it.Category = *i.Category
	}
	if i.Description != nil {
		it.Description = i.Description
	}
	if i.Quantity != nil {
		it.Quantity = *i.Quantity
	}
	if i.Unit != nil {
		it.Unit = *i.Unit
	}
	if i.MinThreshold != nil {
		it.MinThreshold = *i.MinThreshold
	}
	if i.UnitCost != nil {
		it.UnitCost = *i.UnitCost
	}
	if i.ExpirationDate != nil {
		it.ExpirationDate = i.ExpirationDate
	}
	if i.ClearExpirationDate {
		it.ExpirationDate = nil
	}
	if i.Location != nil {
		it.Location = i.Location
	}
	return it
}

// AdjustStockInput holds parameters for a manual quantity adjustment.
type AdjustStockInput struct {
	ItemID int64
	// Delta is signed: positive restocks, negative consumes.
	Delta decimal.Decimal
	Note  string
}

// Validate checks all fields and collects all errors.
func (i *AdjustStockInput) Validate() error {
	var errs []domain.FieldError

	if i.ItemID <= 0 {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if i.Delta.IsZero() {
		errs = append(errs, domain.FieldError{Field: "delta", Message: "must not be zero"})
	}
	if len(i.Note) > domain.WasteNotesMaxLen {
		errs = append(errs, domain.FieldError{Field: "note", Message: "must be at most 500 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListItemsInput holds listing parameters.
type ListItemsInput struct {
	Search         string
	Category       string
	IncludeDeleted bool
	SortBy         string
	SortOrder      string
	Limit          int
	Offset         int
}

// Validate checks all fields and collects all errors.
func (i *ListItemsInput) Validate() error {
	var errs []domain.FieldError

	if i.SortBy != "" {
		switch i.SortBy {
		case "name", "quantity", "expiration_date", "updated_at":
			// valid
		default:
			errs = append(errs, domain.FieldError{Field: "sort_by", Message: "invalid value (allowed: name, quantity, expiration_date, updated_at)"})
		}
	}
	if i.SortOrder != "" {
		switch i.SortOrder {
		case "ASC", "DESC":
			// valid
		default:
			errs = append(errs, domain.FieldError{Field: "sort_order", Message: "invalid value (allowed: ASC, DESC)"})
		}
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must not be negative"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *ListItemsInput) filter() item.Filter {
	f := item.Filter{
		IncludeDeleted: i.IncludeDeleted,
		SortBy:         i.SortBy,
		SortOrder:      i.SortOrder,
		Limit:          i.Limit,
		Offset:         i.Offset,
	}
	if i.Search != "" {
		f.Search = &i.Search
	}
	if i.Category != "" {
		f.Category = &i.Category
	}
	return f
}

func validateCategory(category string, categories []string) *domain.FieldError {
	for _, c := range categories {
		if strings.EqualFold(c, category) {
			return nil
		}
	}
	return &domain.FieldError{
		Field:   "category",
		Message: fmt.Sprintf("must be one of: %s", strings.Join(categories, ", ")),
	}
}
