package activity

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

type feedRepoMock struct {
	CreateFunc     func(ctx context.Context, ev domain.FeedEvent) error
	ListRecentFunc func(ctx context.Context, limit int) ([]domain.FeedEvent, error)
	TruncateFunc   func(ctx context.Context) error

	events []domain.FeedEvent
}

var _ feedRepo = (*feedRepoMock)(nil)

func (m *feedRepoMock) Create(ctx context.Context, ev domain.FeedEvent) error {
	m.events = append(m.events, ev)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ev)
	}
	return nil
}

func (m *feedRepoMock) ListRecent(ctx context.Context, limit int) ([]domain.FeedEvent, error) {
	if m.ListRecentFunc == nil {
		panic("feedRepoMock.ListRecent: unexpected call")
	}
	return m.ListRecentFunc(ctx, limit)
}

func (m *feedRepoMock) Truncate(ctx context.Context) error {
	m.events = nil
	if m.TruncateFunc != nil {
		return m.TruncateFunc(ctx)
	}
	return nil
}

type auditReaderMock struct {
	ListFunc func(ctx context.Context, filter audit.Filter) ([]domain.AuditRecord, error)
}

var _ auditReader = (*auditReaderMock)(nil)

func (m *auditReaderMock) List(ctx context.Context, filter audit.Filter) ([]domain.AuditRecord, error) {
	if m.ListFunc == nil {
		panic("auditReaderMock.List: unexpected call")
	}
	return m.ListFunc(ctx, filter)
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

func defaultCfg() config.InventoryConfig {
	return config.InventoryConfig{FeedLimit: 50}
}

func sessionCtx(role domain.Role) context.Context {
	return ctxutil.WithSession(context.Background(), domain.Session{
		ID:        uuid.New(),
		AccountID: 3,
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func TestService_Recent(t *testing.T) {
	t.Parallel()

	feedMock := &feedRepoMock{
		ListRecentFunc: func(ctx context.Context, limit int) ([]domain.FeedEvent, error) {
			if limit != 50 {
				t.Errorf("limit = %d, want 50", limit)
			}
			return []domain.FeedEvent{{ID: 2}, {ID: 1}}, nil
		},
	}

	svc := NewService(slog.Default(), feedMock, &auditReaderMock{}, &txManagerMock{}, defaultCfg())

	events, err := svc.Recent(sessionCtx(domain.RoleStaff))
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("events = %+v", events)
	}
}

func TestService_Recent_NoSession(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &feedRepoMock{}, &auditReaderMock{}, &txManagerMock{}, defaultCfg())

	_, err := svc.Recent(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestService_Rebuild(t *testing.T) {
	t.Parallel()

	accountID := int64(3)
	itemID := int64(4)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	records := []domain.AuditRecord{
		{ID: 6, AccountID: &accountID, Action: domain.AuditActionExport, CreatedAt: base.Add(4 * time.Hour)},
		{ID: 5, AccountID: &accountID, ItemID: &itemID, Action: domain.AuditActionRecordWaste, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 4, AccountID: &accountID, Action: domain.AuditActionLoginFailed, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 3, AccountID: &accountID, ItemID: &itemID, Action: domain.AuditActionAdjustStock, CreatedAt: base.Add(time.Hour)},
		{ID: 2, AccountID: nil, Action: domain.AuditActionCreateAccount, CreatedAt: base.Add(30 * time.Minute)},
		{ID: 1, AccountID: &accountID, ItemID: &itemID, Action: domain.AuditActionCreateItem, CreatedAt: base},
	}

	auditMock := &auditReaderMock{
		ListFunc: func(ctx context.Context, filter audit.Filter) ([]domain.AuditRecord, error) {
			if filter.Offset > 0 {
				return nil, nil
			}
			return records, nil
		},
	}
	feedMock := &feedRepoMock{}

	svc := NewService(slog.Default(), feedMock, auditMock, passthroughTx(), defaultCfg())

	n, err := svc.Rebuild(sessionCtx(domain.RoleAdmin))
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	// Only actions a live mutation projects are replayed: security
	// events, audited exports and account-less rows are excluded.
	if n != 3 {
		t.Errorf("rebuilt = %d, want 3", n)
	}
	if len(feedMock.events) != 3 {
		t.Fatalf("events = %+v", feedMock.events)
	}
	for _, ev := range feedMock.events {
		if ev.Action == "LOGIN_FAILED" || ev.Action == "CREATE_ACCOUNT" || ev.Action == "EXPORT" {
			t.Errorf("non-feed event leaked into the rebuilt feed: %+v", ev)
		}
		if ev.CreatedAt.IsZero() {
			t.Error("original timestamp not preserved")
		}
	}
}

func TestService_Rebuild_StaffForbidden(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &feedRepoMock{}, &auditReaderMock{}, &txManagerMock{}, defaultCfg())

	_, err := svc.Rebuild(sessionCtx(domain.RoleStaff))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestService_Rebuild_TruncateFailureAborts(t *testing.T) {
	t.Parallel()

	feedMock := &feedRepoMock{
		TruncateFunc: func(ctx context.Context) error { return domain.ErrStorageUnavailable },
	}

	svc := NewService(slog.Default(), feedMock, &auditReaderMock{}, passthroughTx(), defaultCfg())

	_, err := svc.Rebuild(sessionCtx(domain.RoleAdmin))
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}
