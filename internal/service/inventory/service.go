// Package inventory implements the stock ledger: item CRUD, the
// quantity-delta invariant, and the audit/feed writes that accompany
// every mutation.
package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/item"
	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// itemRepo defines the item repository interface needed by the service.
type itemRepo interface {
	Create(ctx context.Context, it domain.InventoryItem) (domain.InventoryItem, error)
	GetByID(ctx context.Context, id int64) (domain.InventoryItem, error)
	List(ctx context.Context, filter item.Filter) ([]domain.InventoryItem, error)
	Update(ctx context.Context, it domain.InventoryItem, expectedUpdatedAt time.Time) (domain.InventoryItem, error)
	ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (domain.InventoryItem, error)
	SoftDelete(ctx context.Context, id int64) error
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

// Service implements inventory ledger operations.
type Service struct {
	log   *slog.Logger
	items itemRepo
	audit auditRecorder
	feed  feedWriter
	tx    txManager
	cfg   config.InventoryConfig
}

// NewService creates a new inventory service instance.
func NewService(
	logger *slog.Logger,
	items itemRepo,
	audit auditRecorder,
	feed feedWriter,
	tx txManager,
	cfg config.InventoryConfig,
) *Service {
	return &Service{
		log:   logger.With("service", "inventory"),
		items: items,
		audit: audit,
		feed:  feed,
		tx:    tx,
		cfg:   cfg,
	}
}

// StatusFor derives the display status of an item using the configured
// expiring window. All listings, dashboards, and exports go through
// this one function so status coloring never diverges.
func (s *Service) StatusFor(it *domain.InventoryItem, now time.Time) domain.ItemStatus {
	return domain.ComputeStatus(it, now, s.cfg.ExpiringWindow())
}
