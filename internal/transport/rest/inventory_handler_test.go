package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/internal/service/inventory"
)

type inventoryServiceMock struct {
	CreateItemFunc  func(ctx context.Context, input inventory.CreateItemInput) (*domain.InventoryItem, error)
	GetItemFunc     func(ctx context.Context, id int64) (*domain.InventoryItem, error)
	ListItemsFunc   func(ctx context.Context, input inventory.ListItemsInput) ([]domain.InventoryItem, error)
	UpdateItemFunc  func(ctx context.Context, input inventory.UpdateItemInput) (*domain.InventoryItem, error)
	DeleteItemFunc  func(ctx context.Context, id int64) error
	AdjustStockFunc func(ctx context.Context, input inventory.AdjustStockInput) (*domain.InventoryItem, error)
	StatusForFunc   func(it *domain.InventoryItem, now time.Time) domain.ItemStatus
}

var _ inventoryService = (*inventoryServiceMock)(nil)

func (m *inventoryServiceMock) CreateItem(ctx context.Context, input inventory.CreateItemInput) (*domain.InventoryItem, error) {
	if m.CreateItemFunc == nil {
		panic("inventoryServiceMock.CreateItem: unexpected call")
	}
	return m.CreateItemFunc(ctx, input)
}

func (m *inventoryServiceMock) GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	if m.GetItemFunc == nil {
		panic("inventoryServiceMock.GetItem: unexpected call")
	}
	return m.GetItemFunc(ctx, id)
}

func (m *inventoryServiceMock) ListItems(ctx context.Context, input inventory.ListItemsInput) ([]domain.InventoryItem, error) {
	if m.ListItemsFunc == nil {
		panic("inventoryServiceMock.ListItems: unexpected call")
	}
	return m.ListItemsFunc(ctx, input)
}

func (m *inventoryServiceMock) UpdateItem(ctx context.Context, input inventory.UpdateItemInput) (*domain.InventoryItem, error) {
	if m.UpdateItemFunc == nil {
		panic("inventoryServiceMock.UpdateItem: unexpected call")
	}
	return m.UpdateItemFunc(ctx, input)
}

func (m *inventoryServiceMock) DeleteItem(ctx context.Context, id int64) error {
	if m.DeleteItemFunc == nil {
		panic("inventoryServiceMock.DeleteItem: unexpected call")
	}
	return m.DeleteItemFunc(ctx, id)
}

func (m *inventoryServiceMock) AdjustStock(ctx context.Context, input inventory.AdjustStockInput) (*domain.InventoryItem, error) {
	if m.AdjustStockFunc == nil {
		panic("inventoryServiceMock.AdjustStock: unexpected call")
	}
	return m.AdjustStockFunc(ctx, input)
}

func (m *inventoryServiceMock) StatusFor(it *domain.InventoryItem, now time.Time) domain.ItemStatus {
	if m.StatusForFunc == nil {
		return domain.ItemStatusOK
	}
	return m.StatusForFunc(it, now)
}

// itemRoutes mounts the handler on a router so {id} resolves.
func itemRoutes(h *InventoryHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/items", h.List)
	r.Post("/items", h.Create)
	r.Get("/items/{id}", h.Get)
	r.Put("/items/{id}", h.Update)
	r.Delete("/items/{id}", h.Delete)
	r.Post("/items/{id}/adjust", h.Adjust)
	return r
}

func TestInventoryHandler_Create(t *testing.T) {
	svc := &inventoryServiceMock{
		CreateItemFunc: func(ctx context.Context, input inventory.CreateItemInput) (*domain.InventoryItem, error) {
			if input.Name != "Black Tea" || input.Category != "Tea" {
				t.Errorf("unexpected input: %+v", input)
			}
			if !input.Quantity.Equal(decimal.NewFromInt(12)) {
				t.Errorf("quantity = %s", input.Quantity)
			}
			if input.ExpirationDate == nil || input.ExpirationDate.Format("2006-01-02") != "2026-12-01" {
				t.Errorf("expiration = %v", input.ExpirationDate)
			}
			return &domain.InventoryItem{
				ID:           8,
				Name:         input.Name,
				Category:     input.Category,
				Quantity:     input.Quantity,
				Unit:         input.Unit,
				MinThreshold: input.MinThreshold,
				UnitCost:     input.UnitCost,
			}, nil
		},
	}
	h := NewInventoryHandler(svc, slog.Default())

	body := `{"name":"Black Tea","category":"Tea","quantity":"12","unit":"kg","min_threshold":"5","unit_cost":"4.20","expiration_date":"2026-12-01"}`
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
	rec := httptest.NewRecorder()

	itemRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp itemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ID != 8 || resp.Status != "OK" {
		t.Errorf("response = %+v", resp)
	}
	if !resp.TotalValue.Equal(decimal.RequireFromString("50.4")) {
		t.Errorf("total_value = %s", resp.TotalValue)
	}
}

func TestInventoryHandler_Get_InvalidID(t *testing.T) {
	h := NewInventoryHandler(&inventoryServiceMock{}, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/items/abc", nil)
	rec := httptest.NewRecorder()

	itemRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestInventoryHandler_Get_NotFound(t *testing.T) {
	svc := &inventoryServiceMock{
		GetItemFunc: func(ctx context.Context, id int64) (*domain.InventoryItem, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewInventoryHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/items/99", nil)
	rec := httptest.NewRecorder()

	itemRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestInventoryHandler_List_QueryParams(t *testing.T) {
	var got inventory.ListItemsInput
	svc := &inventoryServiceMock{
		ListItemsFunc: func(ctx context.Context, input inventory.ListItemsInput) ([]domain.InventoryItem, error) {
			got = input
			return nil, nil
		},
	}
	h := NewInventoryHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodGet,
		"/items?search=tea&category=Tea&sort_by=quantity&sort_order=DESC&limit=25&offset=50&include_deleted=true", nil)
	rec := httptest.NewRecorder()

	itemRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got.Search != "tea" || got.Category != "Tea" || got.SortBy != "quantity" || got.SortOrder != "DESC" {
		t.Errorf("input = %+v", got)
	}
	if got.Limit != 25 || got.Offset != 50 || !got.IncludeDeleted {
		t.Errorf("input = %+v", got)
	}
}

func TestInventoryHandler_Update_Conflict(t *testing.T) {
	svc := &inventoryServiceMock{
		UpdateItemFunc: func(ctx context.Context, input inventory.UpdateItemInput) (*domain.InventoryItem, error) {
			return nil, domain.ErrConflict
		},
	}
	h := NewInventoryHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodPut, "/items/8", strings.NewReader(`{"name":"Green Tea"}`))
	rec := httptest.NewRecorder()

	itemRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestInventoryHandler_Adjust(t *testing.T) {
	svc := &inventoryServiceMock{
		AdjustStockFunc: func(ctx context.Context, input inventory.AdjustStockInput) (*domain.InventoryItem, error) {
			if input.ItemID != 8 {
				t.Errorf("item id = %d", input.ItemID)
			}
			if !input.Delta.Equal(decimal.RequireFromString("-2.5")) {
				t.Errorf("delta = %s", input.Delta)
			}
			return &domain.InventoryItem{ID: 8, Quantity: decimal.RequireFromString("9.5")}, nil
		},
	}
	h := NewInventoryHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/items/8/adjust",
		strings.NewReader(`{"delta":"-2.5","note":"morning prep"}`))
	rec := httptest.NewRecorder()

	itemRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp itemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Quantity.Equal(decimal.RequireFromString("9.5")) {
		t.Errorf("quantity = %s", resp.Quantity)
	}
}

func TestInventoryHandler_Adjust_InsufficientStock(t *testing.T) {
	svc := &inventoryServiceMock{
		AdjustStockFunc: func(ctx context.Context, input inventory.AdjustStockInput) (*domain.InventoryItem, error) {
			return nil, domain.ErrInsufficientStock
		},
	}
	h := NewInventoryHandler(svc, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/items/8/adjust",
		strings.NewReader(`{"delta":"-500"}`))
	rec := httptest.NewRecorder()

	itemRoutes(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}
