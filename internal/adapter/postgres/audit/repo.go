// Package audit implements the audit trail repository using PostgreSQL.
// The trail is append-only: the repository exposes no update or delete,
// and a database trigger rejects them outright.
package audit

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

const table = "audit_trails"

// Repo provides audit trail persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit trail repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type auditRow struct {
	ID          int64      `db:"id"`
	AccountID   *int64     `db:"account_id"`
	ItemID      *int64     `db:"item_id"`
	Action      string     `db:"action"`
	EntityType  string     `db:"entity_type"`
	EntityID    *int64     `db:"entity_id"`
	OldValues   []byte     `db:"old_values"`
	NewValues   []byte     `db:"new_values"`
	Description string     `db:"description"`
	IPAddress   *string    `db:"ip_address"`
	SessionID   *uuid.UUID `db:"session_id"`
	CreatedAt   time.Time  `db:"created_at"`
	Username    *string    `db:"username"`
}

func (r auditRow) toDomain() domain.AuditRecord {
	rec := domain.AuditRecord{
		ID:          r.ID,
		AccountID:   r.AccountID,
		ItemID:      r.ItemID,
		Action:      domain.AuditAction(r.Action),
		EntityType:  domain.EntityType(r.EntityType),
		EntityID:    r.EntityID,
		OldValues:   r.OldValues,
		NewValues:   r.NewValues,
		Description: r.Description,
		IPAddress:   r.IPAddress,
		SessionID:   r.SessionID,
		CreatedAt:   r.CreatedAt,
	}
	if r.Username != nil {
		rec.Username = *r.Username
	}
	return rec
}

// Create appends a record to the trail and returns it. Called inside
// the same transaction as the mutation it describes, so a failed append
// rolls the mutation back.
func (r *Repo) Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("account_id", "item_id", "action", "entity_type", "entity_id",
			"old_values", "new_values", "description", "ip_address", "session_id").
		Values(rec.AccountID, rec.ItemID, rec.Action.String(), rec.EntityType.String(), rec.EntityID,
			rec.OldValues, rec.NewValues, rec.Description, rec.IPAddress, rec.SessionID).
		Suffix(`RETURNING id, account_id, item_id, action, entity_type, entity_id,
			old_values, new_values, description, ip_address, session_id, created_at`).
		ToSql()
	if err != nil {
		return domain.AuditRecord{}, fmt.Errorf("build insert audit record: %w", err)
	}

	var row auditRow
	if err := pgxscan.Get(ctx, q, &row, sql, args...); err != nil {
		return domain.AuditRecord{}, postgres.MapError(err, "audit_record", 0)
	}
	return row.toDomain(), nil
}

// Filter narrows audit trail listings.
type Filter struct {
	AccountID  *int64
	ItemID     *int64
	Action     *domain.AuditAction
	EntityType *domain.EntityType
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

const (
	defaultLimit = 100
	maxLimit     = 5000
)

func (f *Filter) normalize() {
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

// List returns trail records matching the filter, newest first, with
// the acting account's username joined in.
func (r *Repo) List(ctx context.Context, filter Filter) ([]domain.AuditRecord, error) {
	filter.normalize()
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Select("t.id", "t.account_id", "t.item_id", "t.action", "t.entity_type", "t.entity_id",
			"t.old_values", "t.new_values", "t.description", "t.ip_address", "t.session_id", "t.created_at",
			"a.username").
		From(table + " t").
		LeftJoin("accounts a ON a.id = t.account_id").
		OrderBy("t.created_at DESC", "t.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if filter.AccountID != nil {
		b = b.Where(squirrel.Eq{"t.account_id": *filter.AccountID})
	}
	if filter.ItemID != nil {
		b = b.Where(squirrel.Eq{"t.item_id": *filter.ItemID})
	}
	if filter.Action != nil {
		b = b.Where(squirrel.Eq{"t.action": filter.Action.String()})
	}
	if filter.EntityType != nil {
		b = b.Where(squirrel.Eq{"t.entity_type": filter.EntityType.String()})
	}
	if filter.From != nil {
		b = b.Where(squirrel.GtOrEq{"t.created_at": *filter.From})
	}
	if filter.To != nil {
		b = b.Where(squirrel.Lt{"t.created_at": *filter.To})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit records: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, q, &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "audit_record", 0)
	}

	records := make([]domain.AuditRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toDomain()
	}
	return records, nil
}
