package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/waste"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

// Dashboard aggregates the stock health numbers shown on the landing
// page. TotalValuation is populated for admins only.
type Dashboard struct {
	TotalValuation *decimal.Decimal
	LowStock       []domain.InventoryItem
	Expiring       []domain.InventoryItem
	Expired        []domain.InventoryItem
}

// Dashboard builds the stock health summary in one read-only snapshot.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}

	var d Dashboard
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context) error {
		var err error
		if d.LowStock, err = s.items.LowStock(ctx, s.cfg.LowStockLimit); err != nil {
			return fmt.Errorf("low stock: %w", err)
		}

		today := startOfDay(time.Now())
		window := today.Add(s.cfg.ExpiringWindow())
		if d.Expiring, err = s.items.ExpiringBetween(ctx, today, window); err != nil {
			return fmt.Errorf("expiring: %w", err)
		}
		if d.Expired, err = s.items.ExpiringBetween(ctx, earliestDate, today.AddDate(0, 0, -1)); err != nil {
			return fmt.Errorf("expired: %w", err)
		}

		// Valuation stays admin-only; staff dashboards omit it.
		if domain.Authorize(sess.Role, domain.ActionViewValuation) == nil {
			total, err := s.items.TotalValuation(ctx)
			if err != nil {
				return fmt.Errorf("valuation: %w", err)
			}
			d.TotalValuation = &total
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("report.Dashboard: %w", err)
	}
	return &d, nil
}

// Valuation returns the total stock value. Admin only.
func (s *Service) Valuation(ctx context.Context) (decimal.Decimal, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return decimal.Zero, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewValuation); err != nil {
		return decimal.Zero, err
	}

	total, err := s.items.TotalValuation(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("report.Valuation: %w", err)
	}
	return total, nil
}

// LowStockItems returns non-deleted items below their threshold, most
// depleted first.
func (s *Service) LowStockItems(ctx context.Context) ([]domain.InventoryItem, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}

	items, err := s.items.LowStock(ctx, s.cfg.LowStockLimit)
	if err != nil {
		return nil, fmt.Errorf("report.LowStockItems: %w", err)
	}
	return items, nil
}

// ExpiringItems returns items expiring within the configured window,
// soonest first. Already expired items are not included.
func (s *Service) ExpiringItems(ctx context.Context) ([]domain.InventoryItem, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}

	today := startOfDay(time.Now())
	items, err := s.items.ExpiringBetween(ctx, today, today.Add(s.cfg.ExpiringWindow()))
	if err != nil {
		return nil, fmt.Errorf("report.ExpiringItems: %w", err)
	}
	return items, nil
}

// WasteByReason aggregates waste over [from, to) grouped by reason,
// costliest first.
func (s *Service) WasteByReason(ctx context.Context, from, to time.Time) ([]waste.ReasonSummary, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	summaries, err := s.wastes.SummarizeByReason(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.WasteByReason: %w", err)
	}
	return summaries, nil
}

// WasteByMonth aggregates waste over [from, to) grouped by calendar
// month, oldest first.
func (s *Service) WasteByMonth(ctx context.Context, from, to time.Time) ([]waste.MonthSummary, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	summaries, err := s.wastes.SummarizeByMonth(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("report.WasteByMonth: %w", err)
	}
	return summaries, nil
}

// RecentWaste returns the newest waste entries with item and recorder
// names resolved.
func (s *Service) RecentWaste(ctx context.Context) ([]domain.WasteLog, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewInventory); err != nil {
		return nil, err
	}

	logs, err := s.wastes.ListRecent(ctx, s.cfg.RecentWasteLimit)
	if err != nil {
		return nil, fmt.Errorf("report.RecentWaste: %w", err)
	}
	return logs, nil
}

// SearchAudit returns audit records matching the filter, newest first.
// Admin only.
func (s *Service) SearchAudit(ctx context.Context, filter audit.Filter) ([]domain.AuditRecord, error) {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionViewAuditTrail); err != nil {
		return nil, err
	}

	records, err := s.audit.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("report.SearchAudit: %w", err)
	}
	return records, nil
}

// StatusFor derives the display status of an item using the configured
// expiring window.
func (s *Service) StatusFor(it *domain.InventoryItem, now time.Time) domain.ItemStatus {
	return domain.ComputeStatus(it, now, s.cfg.ExpiringWindow())
}

// earliestDate is the lower bound for "everything already expired".
var earliestDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return domain.NewValidationError("date_range", "both bounds are required")
	}
	if !from.Before(to) {
		return domain.NewValidationError("date_range", "from must be before to")
	}
	return nil
}
