// Package account implements the account repository using PostgreSQL.
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/brewmetric/brewmetric-backend/internal/adapter/postgres"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

const table = "accounts"

var columns = []string{
	"id", "username", "email", "full_name", "password_hash", "role",
	"is_active", "must_change_password", "created_at", "last_login_at",
}

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new account repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type accountRow struct {
	ID                 int64      `db:"id"`
	Username           string     `db:"username"`
	Email              string     `db:"email"`
	FullName           string     `db:"full_name"`
	PasswordHash       string     `db:"password_hash"`
	Role               string     `db:"role"`
	IsActive           bool       `db:"is_active"`
	MustChangePassword bool       `db:"must_change_password"`
	CreatedAt          time.Time  `db:"created_at"`
	LastLoginAt        *time.Time `db:"last_login_at"`
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:                 r.ID,
		Username:           r.Username,
		Email:              r.Email,
		FullName:           r.FullName,
		PasswordHash:       r.PasswordHash,
		Role:               domain.Role(r.Role),
		IsActive:           r.IsActive,
		MustChangePassword: r.MustChangePassword,
		CreatedAt:          r.CreatedAt,
		LastLoginAt:        r.LastLoginAt,
	}
}

// Create inserts a new account and returns the persisted record.
func (r *Repo) Create(ctx context.Context, acc domain.Account) (domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("username", "email", "full_name", "password_hash", "role", "is_active", "must_change_password").
		Values(acc.Username, acc.Email, acc.FullName, acc.PasswordHash, acc.Role.String(), acc.IsActive, acc.MustChangePassword).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.Account{}, fmt.Errorf("build insert account: %w", err)
	}

	var row accountRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.Account{}, postgres.MapError(err, "account", 0)
	}
	return row.toDomain(), nil
}

// GetByID returns the account with the given id.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Account{}, fmt.Errorf("build select account: %w", err)
	}

	var row accountRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.Account{}, postgres.MapError(err, "account", id)
	}
	return row.toDomain(), nil
}

// GetByUsername returns the account with the given username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return domain.Account{}, fmt.Errorf("build select account: %w", err)
	}

	var row accountRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.Account{}, postgres.MapError(err, "account", 0)
	}
	return row.toDomain(), nil
}

// List returns all accounts ordered by username.
func (r *Repo) List(ctx context.Context) ([]domain.Account, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list accounts: %w", err)
	}

	var rows []accountRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "account", 0)
	}

	accounts := make([]domain.Account, len(rows))
	for i, row := range rows {
		accounts[i] = row.toDomain()
	}
	return accounts, nil
}

// Count returns the total number of accounts. Used to decide whether
// the bootstrap admin must be created.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, "SELECT count(*) FROM accounts").Scan(&count); err != nil {
		return 0, postgres.MapError(err, "account", 0)
	}
	return count, nil
}

// UpdatePassword replaces the password hash and clears or sets the
// must_change_password flag.
func (r *Repo) UpdatePassword(ctx context.Context, id int64, passwordHash string, mustChange bool) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("password_hash", passwordHash).
		Set("must_change_password", mustChange).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "account", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetLastLogin stamps the successful login time.
func (r *Repo) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("last_login_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "account", id)
	}
	return nil
}

// SetActive enables or disables the account.
func (r *Repo) SetActive(ctx context.Context, id int64, active bool) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Update(table).
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update active: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "account", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}
