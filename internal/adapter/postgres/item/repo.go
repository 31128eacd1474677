// Package item implements the inventory item repository using PostgreSQL.
// Stock arithmetic happens inside the database: ApplyDelta is a single
// conditional UPDATE, so concurrent adjustments serialize on the row
// and the quantity can never go negative.
package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	postgres "github.com/brewmetric/brewmetric-backend/internal/adapter/postgres"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

const table = "inventory_items"

var columns = []string{
	"id", "name", "category", "description", "quantity", "unit",
	"min_threshold", "unit_cost", "expiration_date", "location",
	"is_deleted", "created_at", "updated_at",
}

// Repo provides inventory item persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new inventory item repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type itemRow struct {
	ID             int64           `db:"id"`
	Name           string          `db:"name"`
	Category       string          `db:"category"`
	Description    *string         `db:"description"`
	Quantity       decimal.Decimal `db:"quantity"`
	Unit           string          `db:"unit"`
	MinThreshold   decimal.Decimal `db:"min_threshold"`
	UnitCost       decimal.Decimal `db:"unit_cost"`
	ExpirationDate *time.Time      `db:"expiration_date"`
	Location       *string         `db:"location"`
	IsDeleted      bool            `db:"is_deleted"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (r itemRow) toDomain() domain.InventoryItem {
	return domain.InventoryItem{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		Description:    r.Description,
		Quantity:       r.Quantity,
		Unit:           r.Unit,
		MinThreshold:   r.MinThreshold,
		UnitCost:       r.UnitCost,
		ExpirationDate: r.ExpirationDate,
		Location:       r.Location,
		IsDeleted:      r.IsDeleted,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func joinColumns() string { return strings.Join(columns, ", ") }

// Create inserts a new item and returns the persisted record.
func (r *Repo) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("name", "category", "description", "quantity", "unit", "min_threshold", "unit_cost", "expiration_date", "location").
		Values(item.Name, item.Category, item.Description, item.Quantity, item.Unit, item.MinThreshold, item.UnitCost, item.ExpirationDate, item.Location).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("build insert item: %w", err)
	}

	var row itemRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.InventoryItem{}, postgres.MapError(err, "item", 0)
	}
	return row.toDomain(), nil
}

// GetByID returns the item with the given id. Soft-deleted items are
// reported as not found.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.InventoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("build select item: %w", err)
	}

	var row itemRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.InventoryItem{}, postgres.MapError(err, "item", id)
	}
	return row.toDomain(), nil
}

// List returns items matching the filter.
func (r *Repo) List(ctx context.Context, filter Filter) ([]domain.InventoryItem, error) {
	filter.normalize()
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy(filter.SortBy + " " + filter.SortOrder).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if !filter.IncludeDeleted {
		b = b.Where(squirrel.Eq{"is_deleted": false})
	}
	if filter.Search != nil && *filter.Search != "" {
		b = b.Where(squirrel.ILike{"name": "%" + *filter.Search + "%"})
	}
	if filter.Category != nil && *filter.Category != "" {
		b = b.Where(squirrel.Eq{"category": *filter.Category})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}

	var rows []itemRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "item", 0)
	}

	items := make([]domain.InventoryItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// Update rewrites the item's editable fields using optimistic
// concurrency: the write only applies if updated_at still matches
// expectedUpdatedAt. A lost race surfaces as domain.ErrConflict.
func (r *Repo) Update(ctx context.Context, item domain.InventoryItem, expectedUpdatedAt time.Time) (domain.InventoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("name", item.Name).
		Set("category", item.Category).
		Set("description", item.Description).
		Set("quantity", item.Quantity).
		Set("unit", item.Unit).
		Set("min_threshold", item.MinThreshold).
		Set("unit_cost", item.UnitCost).
		Set("expiration_date", item.ExpirationDate).
		Set("location", item.Location).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": item.ID, "is_deleted": false}).
		Where(squirrel.Eq{"updated_at": expectedUpdatedAt}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("build update item: %w", err)
	}

	var row itemRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		if !pgxscan.NotFound(err) {
			return domain.InventoryItem{}, postgres.MapError(err, "item", item.ID)
		}
		// No row matched: either the item is gone or someone else won
		// the race. Disambiguate for the caller.
		if _, getErr := r.GetByID(ctx, item.ID); getErr != nil {
			return domain.InventoryItem{}, getErr
		}
		return domain.InventoryItem{}, fmt.Errorf("item %d: %w", item.ID, domain.ErrConflict)
	}
	return row.toDomain(), nil
}

// ApplyDelta atomically adjusts the quantity by delta (positive or
// negative). The guard clause keeps the quantity non-negative; a
// decrement that would cross zero returns domain.ErrInsufficientStock.
func (r *Repo) ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (domain.InventoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql := `UPDATE inventory_items
		SET quantity = quantity + $1, updated_at = now()
		WHERE id = $2 AND NOT is_deleted AND quantity + $1 >= 0
		RETURNING ` + joinColumns()

	var row itemRow
	if err := pgxscan.Get(ctx, q, &row, sql, delta, id); err != nil {
		if !pgxscan.NotFound(err) {
			return domain.InventoryItem{}, postgres.MapError(err, "item", id)
		}
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return domain.InventoryItem{}, getErr
		}
		return domain.InventoryItem{}, fmt.Errorf("item %d: %w", id, domain.ErrInsufficientStock)
	}
	return row.toDomain(), nil
}

// SoftDelete marks the item deleted. The row stays for historical
// reports and audit references.
func (r *Repo) SoftDelete(ctx context.Context, id int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("is_deleted", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete item: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "item", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// LowStock returns non-deleted items with quantity strictly below
// their threshold, most depleted first.
func (r *Repo) LowStock(ctx context.Context, limit int) ([]domain.InventoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"is_deleted": false}).
		Where(squirrel.Expr("quantity < min_threshold")).
		OrderBy("quantity ASC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build low stock query: %w", err)
	}

	var rows []itemRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "item", 0)
	}

	items := make([]domain.InventoryItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// ExpiringBetween returns non-deleted items whose expiration date lies
// in [from, until], soonest first. Items already past `from` are the
// expired set; callers pick the bounds.
func (r *Repo) ExpiringBetween(ctx context.Context, from, until time.Time) ([]domain.InventoryItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"is_deleted": false}).
		Where(squirrel.GtOrEq{"expiration_date": from}).
		Where(squirrel.LtOrEq{"expiration_date": until}).
		OrderBy("expiration_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build expiring query: %w", err)
	}

	var rows []itemRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "item", 0)
	}

	items := make([]domain.InventoryItem, len(rows))
	for i, row := range rows {
		items[i] = row.toDomain()
	}
	return items, nil
}

// TotalValuation returns the sum of quantity times unit cost over all
// non-deleted items.
func (r *Repo) TotalValuation(ctx context.Context) (decimal.Decimal, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql := `SELECT COALESCE(SUM(quantity * unit_cost), 0)
		FROM inventory_items WHERE NOT is_deleted`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, sql).Scan(&total); err != nil {
		return decimal.Zero, postgres.MapError(err, "item", 0)
	}
	return total, nil
}
