// Package report is the read-only facade over the ledger, waste logs,
// and audit trail. Nothing here mutates state; multi-query reports run
// inside one read-only transaction so they see a consistent snapshot.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/waste"
	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// itemReader reads the ledger.
type itemReader interface {
	LowStock(ctx context.Context, limit int) ([]domain.InventoryItem, error)
	ExpiringBetween(ctx context.Context, from, until time.Time) ([]domain.InventoryItem, error)
	TotalValuation(ctx context.Context) (decimal.Decimal, error)
}

// wasteReader reads and aggregates waste logs.
type wasteReader interface {
	ListRecent(ctx context.Context, limit int) ([]domain.WasteLog, error)
	SummarizeByReason(ctx context.Context, from, to time.Time) ([]waste.ReasonSummary, error)
	SummarizeByMonth(ctx context.Context, from, to time.Time) ([]waste.MonthSummary, error)
}

// auditReader searches the audit trail.
type auditReader interface {
	List(ctx context.Context, filter audit.Filter) ([]domain.AuditRecord, error)
}

// txManager provides the read-only snapshot for multi-query reports.
type txManager interface {
	RunInReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the reporting facade.
type Service struct {
	log    *slog.Logger
	items  itemReader
	wastes wasteReader
	audit  auditReader
	tx     txManager
	cfg    config.InventoryConfig
}

// NewService creates a new report service instance.
func NewService(
	logger *slog.Logger,
	items itemReader,
	wastes wasteReader,
	audit auditReader,
	tx txManager,
	cfg config.InventoryConfig,
) *Service {
	return &Service{
		log:    logger.With("service", "report"),
		items:  items,
		wastes: wastes,
		audit:  audit,
		tx:     tx,
		cfg:    cfg,
	}
}
