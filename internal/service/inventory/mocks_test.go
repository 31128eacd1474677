package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/item"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

type itemRepoMock struct {
	CreateFunc     func(ctx context.Context, it domain.InventoryItem) (domain.InventoryItem, error)
	GetByIDFunc    func(ctx context.Context, id int64) (domain.InventoryItem, error)
	ListFunc       func(ctx context.Context, filter item.Filter) ([]domain.InventoryItem, error)
	UpdateFunc     func(ctx context.Context, it domain.InventoryItem, expectedUpdatedAt time.Time) (domain.InventoryItem, error)
	ApplyDeltaFunc func(ctx context.Context, id int64, delta decimal.Decimal) (domain.InventoryItem, error)
	SoftDeleteFunc func(ctx context.Context, id int64) error
}

var _ itemRepo = (*itemRepoMock)(nil)

func (m *itemRepoMock) Create(ctx context.Context, it domain.InventoryItem) (domain.InventoryItem, error) {
	if m.CreateFunc == nil {
		panic("itemRepoMock.Create: unexpected call")
	}
	return m.CreateFunc(ctx, it)
}

func (m *itemRepoMock) GetByID(ctx context.Context, id int64) (domain.InventoryItem, error) {
	if m.GetByIDFunc == nil {
		panic("itemRepoMock.GetByID: unexpected call")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *itemRepoMock) List(ctx context.Context, filter item.Filter) ([]domain.InventoryItem, error) {
	if m.ListFunc == nil {
		panic("itemRepoMock.List: unexpected call")
	}
	return m.ListFunc(ctx, filter)
}

func (m *itemRepoMock) Update(ctx context.Context, it domain.InventoryItem, expectedUpdatedAt time.Time) (domain.InventoryItem, error) {
	if m.UpdateFunc == nil {
		panic("itemRepoMock.Update: unexpected call")
	}
	return m.UpdateFunc(ctx, it, expectedUpdatedAt)
}

func (m *itemRepoMock) ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (domain.InventoryItem, error) {
	if m.ApplyDeltaFunc == nil {
		panic("itemRepoMock.ApplyDelta: unexpected call")
	}
	return m.ApplyDeltaFunc(ctx, id, delta)
}

func (m *itemRepoMock) SoftDelete(ctx context.Context, id int64) error {
	if m.SoftDeleteFunc == nil {
		panic("itemRepoMock.SoftDelete: unexpected call")
	}
	return m.SoftDeleteFunc(ctx, id)
}

type auditRecorderMock struct {
	CreateFunc func(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error)

	records []domain.AuditRecord
}

var _ auditRecorder = (*auditRecorderMock)(nil)

func (m *auditRecorderMock) Create(ctx context.Context, rec domain.AuditRecord) (domain.AuditRecord, error) {
	m.records = append(m.records, rec)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	rec.ID = int64(len(m.records))
	return rec, nil
}

type feedWriterMock struct {
	CreateFunc func(ctx context.Context, ev domain.FeedEvent) error

	events []domain.FeedEvent
}

var _ feedWriter = (*feedWriterMock)(nil)

func (m *feedWriterMock) Create(ctx context.Context, ev domain.FeedEvent) error {
	m.events = append(m.events, ev)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ev)
	}
	return nil
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ txManager = (*txManagerMock)(nil)

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc == nil {
		panic("txManagerMock.RunInTx: unexpected call")
	}
	return m.RunInTxFunc(ctx, fn)
}

func passthroughTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}
