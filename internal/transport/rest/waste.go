package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/internal/service/waste"
)

// wasteService defines the minimal interface needed by WasteHandler.
type wasteService interface {
	RecordWaste(ctx context.Context, input waste.RecordWasteInput) (*domain.WasteLog, error)
	ListRecent(ctx context.Context) ([]domain.WasteLog, error)
}

// WasteHandler serves waste recording REST endpoints.
type WasteHandler struct {
	svc wasteService
	log *slog.Logger
}

// NewWasteHandler creates a WasteHandler.
func NewWasteHandler(svc wasteService, logger *slog.Logger) *WasteHandler {
	return &WasteHandler{svc: svc, log: logger.With("handler", "waste")}
}

type recordWasteRequest struct {
	ItemID   int64           `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason"`
	Notes    string          `json:"notes,omitempty"`
}

type wasteResponse struct {
	ID        int64           `json:"id"`
	ItemID    int64           `json:"item_id"`
	ItemName  string          `json:"item_name,omitempty"`
	AccountID int64           `json:"account_id"`
	Username  string          `json:"username,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Notes     *string         `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Record handles POST /api/v1/waste.
func (h *WasteHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordWasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	logged, err := h.svc.RecordWaste(r.Context(), waste.RecordWasteInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Reason:   domain.WasteReason(req.Reason),
		Notes:    req.Notes,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWasteResponse(logged))
}

// Recent handles GET /api/v1/waste.
func (h *WasteHandler) Recent(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.ListRecent(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]wasteResponse, 0, len(logs))
	for i := range logs {
		out = append(out, toWasteResponse(&logs[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func toWasteResponse(wl *domain.WasteLog) wasteResponse {
	return wasteResponse{
		ID:        wl.ID,
		ItemID:    wl.ItemID,
		ItemName:  wl.ItemName,
		AccountID: wl.AccountID,
		Username:  wl.Username,
		Quantity:  wl.Quantity,
		Reason:    wl.Reason.String(),
		Notes:     wl.Notes,
		CreatedAt: wl.CreatedAt,
	}
}
