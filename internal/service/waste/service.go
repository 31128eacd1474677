// Package waste implements waste recording: each recorded waste is an
// atomic unit of stock decrement, waste log row, audit record, and feed
// event. Either all four land or none does.
package waste

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// itemLedger is the only write path into item quantities.
type itemLedger interface {
	ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (domain.InventoryItem, error)
}

// wasteRepo defines the waste repository interface needed by the service.
type wasteRepo interface {
	Create(ctx context.Context, w domain.WasteLog) (domain.WasteLog, error)
	ListRecent(ctx context.Context, limit int) ([]domain.WasteLog, error)
}

// auditRecorder appends records to the audit trail.
type auditRecorder interface {
	Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error)
}

// feedWriter appends events to the activity feed cache.
type feedWriter interface {
	Create(ctx context.Context, ev domain.FeedEvent) error
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements waste recording operations.
type Service struct {
	log    *slog.Logger
	ledger itemLedger
	wastes wasteRepo
	audit  auditRecorder
	feed   feedWriter
	tx     txManager
	cfg    config.InventoryConfig
}

// NewService creates a new waste service instance.
func NewService(
	logger *slog.Logger,
	ledger itemLedger,
	wastes wasteRepo,
	audit auditRecorder,
	feed feedWriter,
	tx txManager,
	cfg config.InventoryConfig,
) *Service {
	return &Service{
		log:    logger.With("service", "waste"),
		ledger: ledger,
		wastes: wastes,
		audit:  audit,
		feed:   feed,
		tx:     tx,
		cfg:    cfg,
	}
}
