// Package feed implements the activity feed repository using PostgreSQL.
// The feed is a denormalized cache over the audit trail: rows can be
// truncated and re-projected at any time without losing information.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/brewmetric/brewmetric-backend/internal/adapter/postgres"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

const table = "activity_feed"

// Repo provides activity feed persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new activity feed repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type feedRow struct {
	ID        int64     `db:"id"`
	AccountID int64     `db:"account_id"`
	ItemID    *int64    `db:"item_id"`
	Action    string    `db:"action"`
	CreatedAt time.Time `db:"created_at"`
	Username  string    `db:"username"`
	ItemName  *string   `db:"item_name"`
}

func (r feedRow) toDomain() domain.FeedEvent {
	return domain.FeedEvent{
		ID:        r.ID,
		AccountID: r.AccountID,
		ItemID:    r.ItemID,
		Action:    r.Action,
		CreatedAt: r.CreatedAt,
		Username:  r.Username,
		ItemName:  r.ItemName,
	}
}

// Create appends a feed event. Called in the same transaction as the
// mutation it mirrors.
func (r *Repo) Create(ctx context.Context, ev domain.FeedEvent) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("account_id", "item_id", "action", "created_at").
		Values(ev.AccountID, ev.ItemID, ev.Action, createdAtOrNow(ev.CreatedAt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert feed event: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "feed_event", 0)
	}
	return nil
}

// ListRecent returns the newest feed events with usernames and item
// names joined in.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.FeedEvent, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("f.id", "f.account_id", "f.item_id", "f.action", "f.created_at",
			"a.username", "i.name AS item_name").
		From(table + " f").
		Join("accounts a ON a.id = f.account_id").
		LeftJoin("inventory_items i ON i.id = f.item_id").
		OrderBy("f.created_at DESC", "f.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent feed query: %w", err)
	}

	var rows []feedRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "feed_event", 0)
	}

	events := make([]domain.FeedEvent, len(rows))
	for i, row := range rows {
		events[i] = row.toDomain()
	}
	return events, nil
}

// Truncate drops all feed rows. Used before a rebuild.
func (r *Repo) Truncate(ctx context.Context) error {
	q := postgres.QuerierFromCtx(ctx, r.db)
	if _, err := q.Exec(ctx, "DELETE FROM activity_feed"); err != nil {
		return postgres.MapError(err, "feed_event", 0)
	}
	return nil
}

// DeleteOlderThan removes feed rows created before the threshold and
// returns how many were removed. The audit trail keeps the history.
func (r *Repo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Lt{"created_at": threshold}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build trim feed query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "feed_event", 0)
	}
	return tag.RowsAffected(), nil
}

// createdAtOrNow lets rebuilds keep historical timestamps while fresh
// events take the database clock.
func createdAtOrNow(t time.Time) any {
	if t.IsZero() {
		return squirrel.Expr("now()")
	}
	return t
}
