package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// InventoryCSV writes the full non-deleted inventory as CSV, name
// ascending, with derived status per row.
func (s *Service) InventoryCSV(ctx context.Context, w io.Writer) error {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionExportInventory); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryHeader); err != nil {
		return fmt.Errorf("export.InventoryCSV write header: %w", err)
	}
	now := time.Now()
	total := 0
	err := s.eachItem(ctx, func(it *domain.InventoryItem) error {
		total++
		return cw.Write(s.inventoryRow(it, now))
	})
	if err != nil {
		return fmt.Errorf("export.InventoryCSV: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.InventoryCSV flush: %w", err)
	}

	s.recordExport(ctx, sess, fmt.Sprintf("inventory csv, %d rows", total))
	return nil
}

// WasteCSV writes the recent waste log as CSV, newest first.
func (s *Service) WasteCSV(ctx context.Context, w io.Writer) error {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionExportInventory); err != nil {
		return err
	}

	logs, err := s.wastes.ListRecent(ctx, s.cfg.RecentWasteLimit)
	if err != nil {
		return fmt.Errorf("export.WasteCSV list waste: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"Date", "Item", "Quantity", "Reason", "Recorded By", "Notes"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export.WasteCSV write header: %w", err)
	}
	for i := range logs {
		l := &logs[i]
		notes := ""
		if l.Notes != nil {
			notes = *l.Notes
		}
		row := []string{
			l.CreatedAt.Format(dateTimeLayout),
			l.ItemName,
			l.Quantity.String(),
			l.Reason.String(),
			l.Username,
			notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export.WasteCSV write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.WasteCSV flush: %w", err)
	}

	s.recordExport(ctx, sess, fmt.Sprintf("waste csv, %d rows", len(logs)))
	return nil
}

// AuditCSV writes audit records matching the filter as CSV, newest
// first. Admin only.
func (s *Service) AuditCSV(ctx context.Context, filter audit.Filter, w io.Writer) error {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewAuditTrail); err != nil {
		return err
	}

	records, err := s.audit.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("export.AuditCSV list records: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"Timestamp", "Account", "Action", "Entity Type", "Entity ID", "Description", "IP Address"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export.AuditCSV write header: %w", err)
	}
	for i := range records {
		rec := &records[i]
		entityID := ""
		if rec.EntityID != nil {
			entityID = fmt.Sprintf("%d", *rec.EntityID)
		}
		ip := ""
		if rec.IPAddress != nil {
			ip = *rec.IPAddress
		}
		row := []string{
			rec.CreatedAt.Format(dateTimeLayout),
			rec.Username,
			rec.Action.String(),
			rec.EntityType.String(),
			entityID,
			rec.Description,
			ip,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export.AuditCSV write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export.AuditCSV flush: %w", err)
	}

	s.recordExport(ctx, sess, fmt.Sprintf("audit csv, %d rows", len(records)))
	return nil
}

// recordExport audits the export. Best effort: a failed audit write
// does not fail an already-delivered export.
func (s *Service) recordExport(ctx context.Context, sess domain.Session, description string) {
	if _, err := s.trail.Create(ctx, domain.AuditRecord{
		AccountID:   &sess.AccountID,
		Action:      domain.AuditActionExport,
		EntityType:  domain.EntityTypeItem,
		Description: description,
		SessionID:   &sess.ID,
	}); err != nil {
		s.log.WarnContext(ctx, "export audit failed", slog.String("error", err.Error()))
	}
}
