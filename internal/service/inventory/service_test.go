package inventory

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/item"
	"github.com/brewmetric/brewmetric-backend/internal/config"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

func defaultCfg() config.InventoryConfig {
	return config.InventoryConfig{
		ExpiringWindowDays: 7,
		Categories:         []string{"Tea", "Milk", "Syrup", "Topping", "Packaging", "Equipment", "Other"},
		LowStockLimit:      10,
		FeedLimit:          50,
		RecentWasteLimit:   100,
	}
}

func adminCtx(accountID int64) context.Context {
	return ctxutil.WithSession(context.Background(), domain.Session{
		ID:        uuid.New(),
		AccountID: accountID,
		Role:      domain.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func staffCtx(accountID int64) context.Context {
	return ctxutil.WithSession(context.Background(), domain.Session{
		ID:        uuid.New(),
		AccountID: accountID,
		Role:      domain.RoleStaff,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ─── CreateItem ─────────────────────────────────────────────────────────────

func TestService_CreateItem_Success(t *testing.T) {
	t.Parallel()

	itemsMock := &itemRepoMock{
		CreateFunc: func(ctx context.Context, it domain.InventoryItem) (domain.InventoryItem, error) {
			it.ID = 11
			it.CreatedAt = time.Now()
			it.UpdatedAt = it.CreatedAt
			return it, nil
		},
	}
	auditMock := &auditRecorderMock{}
	feedMock := &feedWriterMock{}

	svc := NewService(slog.Default(), itemsMock, auditMock, feedMock, passthroughTx(), defaultCfg())

	created, err := svc.CreateItem(staffCtx(3), CreateItemInput{
		Name:         "Oat Milk 1L",
		Category:     "Milk",
		Quantity:     dec("24"),
		Unit:         "carton",
		MinThreshold: dec("6"),
		UnitCost:     dec("2.85"),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if created.ID != 11 {
		t.Errorf("ID = %d", created.ID)
	}
	if len(auditMock.records) != 1 || auditMock.records[0].Action != domain.AuditActionCreateItem {
		t.Errorf("audit records = %+v", auditMock.records)
	}
	if auditMock.records[0].NewValues == nil {
		t.Error("audit record missing new-value snapshot")
	}
	if len(feedMock.events) != 1 || feedMock.events[0].Action != "CREATE_ITEM" {
		t.Errorf("feed events = %+v", feedMock.events)
	}
}

func TestService_CreateItem_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &itemRepoMock{}, &auditRecorderMock{}, &feedWriterMock{}, &txManagerMock{}, defaultCfg())

	tests := []struct {
		name  string
		input CreateItemInput
	}{
		{
			name: "empty name",
			input: CreateItemInput{
				Name: "", Category: "Tea", Unit: "box",
				Quantity: dec("1"), MinThreshold: dec("0"), UnitCost: dec("1"),
			},
		},
		{
			name: "unknown category",
			input: CreateItemInput{
				Name: "Green Tea", Category: "Spices", Unit: "box",
				Quantity: dec("1"), MinThreshold: dec("0"), UnitCost: dec("1"),
			},
		},
		{
			name: "negative quantity",
			input: CreateItemInput{
				Name: "Green Tea", Category: "Tea", Unit: "box",
				Quantity: dec("-1"), MinThreshold: dec("0"), UnitCost: dec("1"),
			},
		},
		{
			name: "negative unit cost",
			input: CreateItemInput{
				Name: "Green Tea", Category: "Tea", Unit: "box",
				Quantity: dec("1"), MinThreshold: dec("0"), UnitCost: dec("-1"),
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.CreateItem(staffCtx(3), tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestService_CreateItem_PastExpirationAccepted(t *testing.T) {
	t.Parallel()

	itemsMock := &itemRepoMock{
		CreateFunc: func(ctx context.Context, it domain.InventoryItem) (domain.InventoryItem, error) {
			it.ID = 1
			return it, nil
		},
	}

	svc := NewService(slog.Default(), itemsMock, &auditRecorderMock{}, &feedWriterMock{}, passthroughTx(), defaultCfg())

	past := time.Now().AddDate(0, 0, -10)
	created, err := svc.CreateItem(staffCtx(3), CreateItemInput{
		Name: "Old Syrup", Category: "Syrup", Unit: "bottle",
		Quantity: dec("2"), MinThreshold: dec("1"), UnitCost: dec("4.50"),
		ExpirationDate: &past,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if got := svc.StatusFor(created, time.Now()); got != domain.ItemStatusExpired {
		t.Errorf("status = %s, want EXPIRED", got)
	}
}

// ─── UpdateItem ─────────────────────────────────────────────────────────────

func TestService_UpdateItem_Success(t *testing.T) {
	t.Parallel()

	now := time.Now()
	current := domain.InventoryItem{
		ID: 4, Name: "Oat Milk 1L", Category: "Milk", Unit: "carton",
		Quantity: dec("10"), MinThreshold: dec("6"), UnitCost: dec("2.85"),
		UpdatedAt: now,
	}

	itemsMock := &itemRepoMock{
		GetByIDFunc: func(ctx context.Context, id int64) (domain.InventoryItem, error) {
			return current, nil
		},
		UpdateFunc: func(ctx context.Context, it domain.InventoryItem, expectedUpdatedAt time.Time) (domain.InventoryItem, error) {
			if !expectedUpdatedAt.Equal(now) {
				t.Errorf("expectedUpdatedAt = %v, want %v", expectedUpdatedAt, now)
			}
			if it.Name != "Oat Milk 2L" {
				t.Errorf("name = %q", it.Name)
			}
			if it.Unit != "carton" {
				t.Errorf("untouched field changed: unit = %q", it.Unit)
			}
			it.UpdatedAt = time.Now()
			return it, nil
		},
	}
	auditMock := &auditRecorderMock{}

	svc := NewService(slog.Default(), itemsMock, auditMock, &feedWriterMock{}, passthroughTx(), defaultCfg())

	name := "Oat Milk 2L"
	updated, err := svc.UpdateItem(adminCtx(1), UpdateItemInput{ID: 4, Name: &name})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Name != "Oat Milk 2L" {
		t.Errorf("Name = %q", updated.Name)
	}
	if len(auditMock.records) != 1 {
		t.Fatalf("audit records = %+v", auditMock.records)
	}
	rec := auditMock.records[0]
	if rec.Action != domain.AuditActionUpdateItem || rec.OldValues == nil || rec.NewValues == nil {
		t.Errorf("audit record = %+v", rec)
	}
}

func TestService_UpdateItem_Conflict(t *testing.T) {
	t.Parallel()

	itemsMock := &itemRepoMock{
		GetByIDFunc: func(ctx context.Context, id int64) (domain.InventoryItem, error) {
			return domain.InventoryItem{ID: 4, Name: "Oat Milk", Category: "Milk", Unit: "carton", UpdatedAt: time.Now()}, nil
		},
		UpdateFunc: func(ctx context.Context, it domain.InventoryItem, expectedUpdatedAt time.Time) (domain.InventoryItem, error) {
			return domain.InventoryItem{}, domain.ErrConflict
		},
	}

	svc := NewService(slog.Default(), itemsMock, &auditRecorderMock{}, &feedWriterMock{}, passthroughTx(), defaultCfg())

	name := "Oat Milk 2L"
	_, err := svc.UpdateItem(adminCtx(1), UpdateItemInput{ID: 4, Name: &name})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestService_UpdateItem_NotFound(t *testing.T) {
	t.Parallel()

	itemsMock := &itemRepoMock{
		GetByIDFunc: func(ctx context.Context, id int64) (domain.InventoryItem, error) {
			return domain.InventoryItem{}, domain.ErrNotFound
		},
	}

	svc := NewService(slog.Default(), itemsMock, &auditRecorderMock{}, &feedWriterMock{}, passthroughTx(), defaultCfg())

	name := "Anything"
	_, err := svc.UpdateItem(adminCtx(1), UpdateItemInput{ID: 99, Name: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// ─── DeleteItem ─────────────────────────────────────────────────────────────

func TestService_DeleteItem_AdminOnly(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &itemRepoMock{}, &auditRecorderMock{}, &feedWriterMock{}, &txManagerMock{}, defaultCfg())

	err := svc.DeleteItem(staffCtx(3), 4)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	var authzErr *domain.AuthorizationError
	if !errors.As(err, &authzErr) {
		t.Fatalf("err = %v, want AuthorizationError", err)
	}
	if authzErr.Action != domain.ActionDeleteItem {
		t.Errorf("denied action = %s", authzErr.Action)
	}
}

func TestService_DeleteItem_Success(t *testing.T) {
	t.Parallel()

	var deleted int64
	itemsMock := &itemRepoMock{
		GetByIDFunc: func(ctx context.Context, id int64) (domain.InventoryItem, error) {
			return domain.InventoryItem{ID: id, Name: "Oat Milk", Category: "Milk", Unit: "carton"}, nil
		},
		SoftDeleteFunc: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	auditMock := &auditRecorderMock{}

	svc := NewService(slog.Default(), itemsMock, auditMock, &feedWriterMock{}, passthroughTx(), defaultCfg())

	if err := svc.DeleteItem(adminCtx(1), 4); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if deleted != 4 {
		t.Errorf("deleted = %d", deleted)
	}
	if len(auditMock.records) != 1 || auditMock.records[0].Action != domain.AuditActionDeleteItem {
		t.Errorf("audit records = %+v", auditMock.records)
	}
}

// ─── AdjustStock ────────────────────────────────────────────────────────────

func TestService_AdjustStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		delta   decimal.Decimal
		repoErr error
		wantErr error
	}{
		{name: "restock", delta: dec("5")},
		{name: "consume", delta: dec("-3")},
		{name: "insufficient stock", delta: dec("-50"), repoErr: domain.ErrInsufficientStock, wantErr: domain.ErrInsufficientStock},
		{name: "unknown item", delta: dec("1"), repoErr: domain.ErrNotFound, wantErr: domain.ErrNotFound},
		{name: "zero delta", delta: dec("0"), wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			itemsMock := &itemRepoMock{
				ApplyDeltaFunc: func(ctx context.Context, id int64, delta decimal.Decimal) (domain.InventoryItem, error) {
					if tt.repoErr != nil {
						return domain.InventoryItem{}, tt.repoErr
					}
					return domain.InventoryItem{ID: id, Quantity: dec("10").Add(delta)}, nil
				},
			}
			auditMock := &auditRecorderMock{}
			feedMock := &feedWriterMock{}

			svc := NewService(slog.Default(), itemsMock, auditMock, feedMock, passthroughTx(), defaultCfg())

			adjusted, err := svc.AdjustStock(staffCtx(3), AdjustStockInput{ItemID: 4, Delta: tt.delta})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(feedMock.events) != 0 {
					t.Errorf("feed written on failure: %+v", feedMock.events)
				}
				return
			}
			if err != nil {
				t.Fatalf("AdjustStock: %v", err)
			}
			if want := dec("10").Add(tt.delta); !adjusted.Quantity.Equal(want) {
				t.Errorf("quantity = %s, want %s", adjusted.Quantity, want)
			}
			if len(auditMock.records) != 1 || auditMock.records[0].Action != domain.AuditActionAdjustStock {
				t.Errorf("audit records = %+v", auditMock.records)
			}
			if len(feedMock.events) != 1 {
				t.Errorf("feed events = %+v", feedMock.events)
			}
		})
	}
}

// ─── ListItems ──────────────────────────────────────────────────────────────

func TestService_ListItems_FilterPassthrough(t *testing.T) {
	t.Parallel()

	itemsMock := &itemRepoMock{
		ListFunc: func(ctx context.Context, filter item.Filter) ([]domain.InventoryItem, error) {
			if filter.Category == nil || *filter.Category != "Milk" {
				t.Errorf("category filter = %v", filter.Category)
			}
			if filter.Search == nil || *filter.Search != "oat" {
				t.Errorf("search filter = %v", filter.Search)
			}
			return []domain.InventoryItem{{ID: 1}}, nil
		},
	}

	svc := NewService(slog.Default(), itemsMock, &auditRecorderMock{}, &feedWriterMock{}, &txManagerMock{}, defaultCfg())

	items, err := svc.ListItems(staffCtx(3), ListItemsInput{Search: "oat", Category: "Milk"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %+v", items)
	}
}

func TestService_ListItems_IncludeDeletedIsAdminOnly(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &itemRepoMock{}, &auditRecorderMock{}, &feedWriterMock{}, &txManagerMock{}, defaultCfg())

	_, err := svc.ListItems(staffCtx(3), ListItemsInput{IncludeDeleted: true})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

// ─── StatusFor ──────────────────────────────────────────────────────────────

func TestService_StatusFor_UsesConfiguredWindow(t *testing.T) {
	t.Parallel()

	cfg := defaultCfg()
	cfg.ExpiringWindowDays = 3

	svc := NewService(slog.Default(), &itemRepoMock{}, &auditRecorderMock{}, &feedWriterMock{}, &txManagerMock{}, cfg)

	now := time.Now()
	in5 := now.AddDate(0, 0, 5)
	it := domain.InventoryItem{
		Quantity: dec("10"), MinThreshold: dec("1"), ExpirationDate: &in5,
	}

	// Five days out is beyond a three-day window.
	if got := svc.StatusFor(&it, now); got != domain.ItemStatusOK {
		t.Errorf("status = %s, want OK", got)
	}

	in2 := now.AddDate(0, 0, 2)
	it.ExpirationDate = &in2
	if got := svc.StatusFor(&it, now); got != domain.ItemStatusExpiring {
		t.Errorf("status = %s, want EXPIRING", got)
	}
}
