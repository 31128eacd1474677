// Package waste implements the waste log repository using PostgreSQL.
package waste

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	postgres "github.com/brewmetric/brewmetric-backend/internal/adapter/postgres"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

const table = "waste_logs"

// Repo provides waste log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new waste log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type wasteRow struct {
	ID        int64           `db:"id"`
	ItemID    int64           `db:"item_id"`
	AccountID int64           `db:"account_id"`
	Quantity  decimal.Decimal `db:"quantity"`
	Reason    string          `db:"reason"`
	Notes     *string         `db:"notes"`
	CreatedAt time.Time       `db:"created_at"`
	ItemName  string          `db:"item_name"`
	Username  string          `db:"username"`
}

func (r wasteRow) toDomain() domain.WasteLog {
	return domain.WasteLog{
		ID:        r.ID,
		ItemID:    r.ItemID,
		AccountID: r.AccountID,
		Quantity:  r.Quantity,
		Reason:    domain.WasteReason(r.Reason),
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		ItemName:  r.ItemName,
		Username:  r.Username,
	}
}

// Create inserts a waste log row and returns the persisted record.
func (r *Repo) Create(ctx context.Context, w domain.WasteLog) (domain.WasteLog, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("item_id", "account_id", "quantity", "reason", "notes").
		Values(w.ItemID, w.AccountID, w.Quantity, w.Reason.String(), w.Notes).
		Suffix("RETURNING id, item_id, account_id, quantity, reason, notes, created_at").
		ToSql()
	if err != nil {
		return domain.WasteLog{}, fmt.Errorf("build insert waste log: %w", err)
	}

	var row wasteRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.WasteLog{}, postgres.MapError(err, "waste_log", 0)
	}
	return row.toDomain(), nil
}

// ListRecent returns the newest waste logs with item and account names
// joined in for display.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.WasteLog, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("w.id", "w.item_id", "w.account_id", "w.quantity", "w.reason", "w.notes", "w.created_at",
			"i.name AS item_name", "a.username").
		From(table + " w").
		Join("inventory_items i ON i.id = w.item_id").
		Join("accounts a ON a.id = w.account_id").
		OrderBy("w.created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent waste query: %w", err)
	}

	var rows []wasteRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "waste_log", 0)
	}

	logs := make([]domain.WasteLog, len(rows))
	for i, row := range rows {
		logs[i] = row.toDomain()
	}
	return logs, nil
}

// ReasonSummary aggregates waste over a period, per reason.
type ReasonSummary struct {
	Reason        string          `db:"reason"`
	Entries       int64           `db:"entries"`
	TotalQuantity decimal.Decimal `db:"total_quantity"`
	TotalCost     decimal.Decimal `db:"total_cost"`
}

// SummarizeByReason aggregates waste rows created in [from, to) grouped
// by reason. Cost uses the item's current unit cost.
func (r *Repo) SummarizeByReason(ctx context.Context, from, to time.Time) ([]ReasonSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("w.reason",
			"count(*) AS entries",
			"SUM(w.quantity) AS total_quantity",
			"SUM(w.quantity * i.unit_cost) AS total_cost").
		From(table + " w").
		Join("inventory_items i ON i.id = w.item_id").
		Where(squirrel.GtOrEq{"w.created_at": from}).
		Where(squirrel.Lt{"w.created_at": to}).
		GroupBy("w.reason").
		OrderBy("total_cost DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build waste summary query: %w", err)
	}

	var rows []ReasonSummary
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "waste_log", 0)
	}
	return rows, nil
}

// MonthSummary aggregates waste per calendar month.
type MonthSummary struct {
	Month         time.Time       `db:"month"`
	Entries       int64           `db:"entries"`
	TotalQuantity decimal.Decimal `db:"total_quantity"`
	TotalCost     decimal.Decimal `db:"total_cost"`
}

// SummarizeByMonth aggregates waste rows created in [from, to) grouped
// by calendar month, oldest first.
func (r *Repo) SummarizeByMonth(ctx context.Context, from, to time.Time) ([]MonthSummary, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql := `SELECT date_trunc('month', w.created_at) AS month,
			count(*) AS entries,
			SUM(w.quantity) AS total_quantity,
			SUM(w.quantity * i.unit_cost) AS total_cost
		FROM waste_logs w
		JOIN inventory_items i ON i.id = w.item_id
		WHERE w.created_at >= $1 AND w.created_at < $2
		GROUP BY 1
		ORDER BY 1 ASC`

	var rows []MonthSummary
	if err := pgxscan.Select(ctx, q, &rows, sql, from, to); err != nil {
		return nil, postgres.MapError(err, "waste_log", 0)
	}
	return rows, nil
}
