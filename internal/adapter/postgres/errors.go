package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors. Repository
// packages call it with the entity name and, when known, the record id
// (0 when the operation has no single subject).
//
// Mapping:
//   - context.DeadlineExceeded     → domain.ErrStorageTimeout
//   - context.Canceled             → passes through
//   - pgx.ErrNoRows                → domain.ErrNotFound
//   - 23505 unique_violation       → domain.ErrAlreadyExists
//   - 23503 foreign_key_violation  → domain.ErrNotFound
//   - 23514 check_violation        → domain.ErrValidation
//   - class 08 connection errors   → domain.ErrStorageUnavailable
func MapError(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}

	subject := entity
	if id != 0 {
		subject = fmt.Sprintf("%s %d", entity, id)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", subject, domain.ErrStorageTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", subject, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", subject, domain.ErrValidation)
		}
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" { // connection_exception
			return fmt.Errorf("%s: %w", subject, domain.ErrStorageUnavailable)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s: %w", subject, err)
}
