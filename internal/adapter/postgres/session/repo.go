// Package session implements the session repository using PostgreSQL.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/brewmetric/brewmetric-backend/internal/adapter/postgres"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

const table = "sessions"

// Repo provides session persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new session repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type sessionRow struct {
	ID        uuid.UUID  `db:"id"`
	AccountID int64      `db:"account_id"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

func (r sessionRow) toDomain() domain.Session {
	return domain.Session{
		ID:        r.ID,
		AccountID: r.AccountID,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
		RevokedAt: r.RevokedAt,
	}
}

// Create inserts a session row.
func (r *Repo) Create(ctx context.Context, s domain.Session) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("id", "account_id", "expires_at").
		Values(s.ID, s.AccountID, s.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "session", 0)
	}
	return nil
}

// GetByID returns the session with the given identifier.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select("id", "account_id", "expires_at", "created_at", "revoked_at").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Session{}, fmt.Errorf("build select session: %w", err)
	}

	var row sessionRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.Session{}, postgres.MapError(err, "session", 0)
	}
	return row.toDomain(), nil
}

// Revoke marks the session revoked. Revoking twice is harmless.
func (r *Repo) Revoke(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("revoked_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build revoke session: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "session", 0)
	}
	return nil
}

// DeleteExpired removes sessions that expired before the cutoff and
// returns how many rows went away.
func (r *Repo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Lt{"expires_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sessions: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "session", 0)
	}
	return tag.RowsAffected(), nil
}
