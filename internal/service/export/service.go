// Package export renders inventory, waste, and audit data as CSV and
// XLSX files. Exports are read-only; each one leaves a single Export
// audit record behind.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/item"
	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// itemLister reads the ledger for export.
type itemLister interface {
	List(ctx context.Context, filter item.Filter) ([]domain.InventoryItem, error)
}

// wasteLister reads waste logs for export.
type wasteLister interface {
	ListRecent(ctx context.Context, limit int) ([]domain.WasteLog, error)
}

// auditReader searches the audit trail for export.
type auditReader interface {
	List(ctx context.Context, filter audit.Filter) ([]domain.AuditRecord, error)
}

// auditRecorder appends the export event itself to the audit trail.
type auditRecorder interface {
	Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error)
}

// Service implements file exports.
type Service struct {
	log    *slog.Logger
	items  itemLister
	wastes wasteLister
	audit  auditReader
	trail  auditRecorder
	cfg    config.InventoryConfig
}

// NewService creates a new export service instance.
func NewService(
	logger *slog.Logger,
	items itemLister,
	wastes wasteLister,
	auditR auditReader,
	trail auditRecorder,
	cfg config.InventoryConfig,
) *Service {
	return &Service{
		log:    logger.With("service", "export"),
		items:  items,
		wastes: wastes,
		audit:  auditR,
		trail:  trail,
		cfg:    cfg,
	}
}

// exportPageSize matches the repository's listing cap; exports page
// until a short page signals the end.
const exportPageSize = 200

// eachItem streams every non-deleted item, name ascending, through fn.
func (s *Service) eachItem(ctx context.Context, fn func(it *domain.InventoryItem) error) error {
	offset := 0
	for {
		page, err := s.items.List(ctx, item.Filter{
			SortBy:    "name",
			SortOrder: "ASC",
			Limit:     exportPageSize,
			Offset:    offset,
		})
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		for i := range page {
			if err := fn(&page[i]); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		if len(page) < exportPageSize {
			return nil
		}
		offset += exportPageSize
	}
}

// inventoryHeader is the column set shared by the CSV and XLSX
// inventory exports.
var inventoryHeader = []string{
	"Name", "Category", "Current Stock", "Unit", "Min Threshold",
	"Unit Cost", "Total Value", "Expiration Date", "Location",
	"Status", "Last Updated",
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// inventoryRow flattens an item into export cells.
func (s *Service) inventoryRow(it *domain.InventoryItem, now time.Time) []string {
	expiration := ""
	if it.ExpirationDate != nil {
		expiration = it.ExpirationDate.Format(dateLayout)
	}
	location := ""
	if it.Location != nil {
		location = *it.Location
	}
	status := domain.ComputeStatus(it, now, s.cfg.ExpiringWindow())

	return []string{
		it.Name,
		it.Category,
		it.Quantity.String(),
		it.Unit,
		it.MinThreshold.String(),
		it.UnitCost.String(),
		it.TotalValue().String(),
		expiration,
		location,
		status.String(),
		it.UpdatedAt.Format(dateTimeLayout),
	}
}
