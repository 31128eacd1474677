package item

// Filter defines parameters for searching and paginating inventory items.
type Filter struct {
	// Search performs ILIKE '%...%' on the item name.
	// nil or empty string means no text filter.
	Search *string

	// Category filters items in the given category.
	Category *string

	// IncludeDeleted includes soft-deleted rows. Used by historical
	// reports; regular listings leave it false.
	IncludeDeleted bool

	// SortBy determines the sort column: "name", "quantity",
	// "expiration_date", "updated_at". Default: "name".
	SortBy string

	// SortOrder: "ASC" or "DESC". Default: "ASC".
	SortOrder string

	// Limit is the maximum number of items to return. Default: 50, max: 200.
	Limit int

	// Offset is the number of items to skip.
	Offset int
}

const (
	defaultLimit = 50
	maxLimit     = 200

	sortByName       = "name"
	sortByQuantity   = "quantity"
	sortByExpiration = "expiration_date"
	sortByUpdatedAt  = "updated_at"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalize applies defaults and clamps values.
func (f *Filter) normalize() {
	switch f.SortBy {
	case sortByName, sortByQuantity, sortByExpiration, sortByUpdatedAt:
	default:
		f.SortBy = sortByName
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
	default:
		f.SortOrder = sortOrderASC
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
