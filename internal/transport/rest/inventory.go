package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/internal/service/inventory"
)

// inventoryService defines the minimal interface needed by InventoryHandler.
type inventoryService interface {
	CreateItem(ctx context.Context, input inventory.CreateItemInput) (*domain.InventoryItem, error)
	GetItem(ctx context.Context, id int64) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, input inventory.ListItemsInput) ([]domain.InventoryItem, error)
	UpdateItem(ctx context.Context, input inventory.UpdateItemInput) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, input inventory.AdjustStockInput) (*domain.InventoryItem, error)
	StatusFor(it *domain.InventoryItem, now time.Time) domain.ItemStatus
}

// InventoryHandler serves inventory REST endpoints.
type InventoryHandler struct {
	svc inventoryService
	log *slog.Logger
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(svc inventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, log: logger.With("handler", "inventory")}
}

type createItemRequest struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Description    *string         `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	MinThreshold   decimal.Decimal `json:"min_threshold"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ExpirationDate *string         `json:"expiration_date,omitempty"`
	Location       *string         `json:"location,omitempty"`
}

type updateItemRequest struct {
	Name                *string          `json:"name,omitempty"`
	Category            *string          `json:"category,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Quantity            *decimal.Decimal `json:"quantity,omitempty"`
	Unit                *string          `json:"unit,omitempty"`
	MinThreshold        *decimal.Decimal `json:"min_threshold,omitempty"`
	UnitCost            *decimal.Decimal `json:"unit_cost,omitempty"`
	ExpirationDate      *string          `json:"expiration_date,omitempty"`
	ClearExpirationDate bool             `json:"clear_expiration_date,omitempty"`
	Location            *string          `json:"location,omitempty"`
}

type adjustStockRequest struct {
	Delta decimal.Decimal `json:"delta"`
	Note  string          `json:"note"`
}

type itemResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Description    *string         `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	MinThreshold   decimal.Decimal `json:"min_threshold"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalValue     decimal.Decimal `json:"total_value"`
	ExpirationDate *string         `json:"expiration_date,omitempty"`
	Location       *string         `json:"location,omitempty"`
	Status         string          `json:"status"`
	IsDeleted      bool            `json:"is_deleted,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// List handles GET /api/v1/items.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.ListItems(r.Context(), inventory.ListItemsInput{
		Search:         q.Get("search"),
		Category:       q.Get("category"),
		IncludeDeleted: queryBool(r, "include_deleted"),
		SortBy:         q.Get("sort_by"),
		SortOrder:      q.Get("sort_order"),
		Limit:          queryInt(r, "limit"),
		Offset:         queryInt(r, "offset"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toItemResponses(items))
}

// Get handles GET /api/v1/items/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	it, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toItemResponse(it))
}

// Create handles POST /api/v1/items.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expiration, err := parseItemDate(req.ExpirationDate)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	it, err := h.svc.CreateItem(r.Context(), inventory.CreateItemInput{
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		MinThreshold:   req.MinThreshold,
		UnitCost:       req.UnitCost,
		ExpirationDate: expiration,
		Location:       req.Location,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toItemResponse(it))
}

// Update handles PUT /api/v1/items/{id}.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expiration, err := parseItemDate(req.ExpirationDate)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	it, err := h.svc.UpdateItem(r.Context(), inventory.UpdateItemInput{
		ID:                  id,
		Name:                req.Name,
		Category:            req.Category,
		Description:         req.Description,
		Quantity:            req.Quantity,
		Unit:                req.Unit,
		MinThreshold:        req.MinThreshold,
		UnitCost:            req.UnitCost,
		ExpirationDate:      expiration,
		ClearExpirationDate: req.ClearExpirationDate,
		Location:            req.Location,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toItemResponse(it))
}

// Delete handles DELETE /api/v1/items/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Adjust handles POST /api/v1/items/{id}/adjust.
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	it, err := h.svc.AdjustStock(r.Context(), inventory.AdjustStockInput{
		ItemID: id,
		Delta:  req.Delta,
		Note:   req.Note,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toItemResponse(it))
}

func (h *InventoryHandler) toItemResponse(it *domain.InventoryItem) itemResponse {
	resp := itemResponse{
		ID:           it.ID,
		Name:         it.Name,
		Category:     it.Category,
		Description:  it.Description,
		Quantity:     it.Quantity,
		Unit:         it.Unit,
		MinThreshold: it.MinThreshold,
		UnitCost:     it.UnitCost,
		TotalValue:   it.Quantity.Mul(it.UnitCost),
		Location:     it.Location,
		Status:       h.svc.StatusFor(it, time.Now()).String(),
		IsDeleted:    it.IsDeleted,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
	if it.ExpirationDate != nil {
		s := it.ExpirationDate.Format(dateParamLayout)
		resp.ExpirationDate = &s
	}
	return resp
}

func (h *InventoryHandler) toItemResponses(items []domain.InventoryItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for i := range items {
		out = append(out, h.toItemResponse(&items[i]))
	}
	return out
}

func parseItemDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateParamLayout, *raw)
	if err != nil {
		return nil, domain.NewValidationError("expiration_date", "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}
