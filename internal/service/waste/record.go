package waste

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// RecordWasteInput holds parameters for recording waste.
type RecordWasteInput struct {
	ItemID   int64
	Quantity decimal.Decimal
	Reason   domain.WasteReason
	Notes    string
}

// Validate checks all fields and collects all errors.
func (i *RecordWasteInput) Validate() error {
	i.Notes = strings.TrimSpace(i.Notes)

	var errs []domain.FieldError

	if i.ItemID <= 0 {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if !i.Quantity.IsPositive() {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "must be positive"})
	}
	if !i.Reason.IsValid() {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "invalid value"})
	}
	if len(i.Notes) > domain.WasteNotesMaxLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordWaste decrements the item's stock and appends the waste log,
// audit record, and feed event in one transaction. A quantity larger
// than the current stock fails with ErrInsufficientStock and leaves
// everything untouched.
func (s *Service) RecordWaste(ctx context.Context, input RecordWasteInput) (*domain.WasteLog, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionRecordWaste); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var logged domain.WasteLog
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		// The ledger enforces the non-negative invariant.
		item, err := s.ledger.ApplyDelta(ctx, input.ItemID, input.Quantity.Neg())
		if err != nil {
			return fmt.Errorf("apply delta: %w", err)
		}

		var notes *string
		if input.Notes != "" {
			notes = &input.Notes
		}
		logged, err = s.wastes.Create(ctx, domain.WasteLog{
			ItemID:    input.ItemID,
			AccountID: sess.AccountID,
			Quantity:  input.Quantity,
			Reason:    input.Reason,
			Notes:     notes,
		})
		if err != nil {
			return fmt.Errorf("create waste log: %w", err)
		}

		newValues, err := json.Marshal(map[string]any{
			"waste_log_id": logged.ID,
			"quantity":     input.Quantity,
			"reason":       input.Reason,
			"remaining":    item.Quantity,
		})
		if err != nil {
			return fmt.Errorf("marshal audit values: %w", err)
		}
		if _, err := s.audit.Create(ctx, domain.AuditRecord{
			AccountID:   &sess.AccountID,
			ItemID:      &input.ItemID,
			Action:      domain.AuditActionRecordWaste,
			EntityType:  domain.EntityTypeWaste,
			EntityID:    &logged.ID,
			NewValues:   newValues,
			Description: input.Notes,
			IPAddress:   clientIP(ctx),
			SessionID:   &sess.ID,
		}); err != nil {
			return fmt.Errorf("audit waste: %w", err)
		}

		if err := s.feed.Create(ctx, domain.FeedEvent{
			AccountID: sess.AccountID,
			ItemID:    &input.ItemID,
			Action:    domain.AuditActionRecordWaste.String(),
		}); err != nil {
			return fmt.Errorf("feed waste: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("waste.RecordWaste: %w", err)
	}

	s.log.InfoContext(ctx, "waste recorded",
		slog.Int64("waste_log_id", logged.ID),
		slog.Int64("item_id", input.ItemID),
		slog.String("quantity", input.Quantity.String()),
		slog.String("reason", input.Reason.String()))

	return &logged, nil
}

// ListRecent returns the most recent waste entries for display.
func (s *Service) ListRecent(ctx context.Context) ([]domain.WasteLog, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}

	logs, err := s.wastes.ListRecent(ctx, s.cfg.RecentWasteLimit)
	if err != nil {
		return nil, fmt.Errorf("waste.ListRecent: %w", err)
	}
	return logs, nil
}

func clientIP(ctx context.Context) *string {
	if ip := ctxutil.ClientIPFromCtx(ctx); ip != "" {
		return &ip
	}
	return nil
}
