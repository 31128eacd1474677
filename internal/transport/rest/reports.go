package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
	pgwaste "github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/waste"
	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/internal/service/report"
)

// reportService defines the minimal interface needed by ReportsHandler.
type reportService interface {
	Dashboard(ctx context.Context) (*report.Dashboard, error)
	Valuation(ctx context.Context) (decimal.Decimal, error)
	LowStockItems(ctx context.Context) ([]domain.InventoryItem, error)
	ExpiringItems(ctx context.Context) ([]domain.InventoryItem, error)
	WasteByReason(ctx context.Context, from, to time.Time) ([]pgwaste.ReasonSummary, error)
	WasteByMonth(ctx context.Context, from, to time.Time) ([]pgwaste.MonthSummary, error)
	SearchAudit(ctx context.Context, filter audit.Filter) ([]domain.AuditRecord, error)
	StatusFor(it *domain.InventoryItem, now time.Time) domain.ItemStatus
}

// ReportsHandler serves reporting REST endpoints.
type ReportsHandler struct {
	svc reportService
	log *slog.Logger
}

// NewReportsHandler creates a ReportsHandler.
func NewReportsHandler(svc reportService, logger *slog.Logger) *ReportsHandler {
	return &ReportsHandler{svc: svc, log: logger.With("handler", "reports")}
}

type dashboardResponse struct {
	TotalValuation *decimal.Decimal `json:"total_valuation,omitempty"`
	LowStock       []itemResponse   `json:"low_stock"`
	Expiring       []itemResponse   `json:"expiring"`
	Expired        []itemResponse   `json:"expired"`
}

type valuationResponse struct {
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type reasonSummaryResponse struct {
	Reason        string          `json:"reason"`
	Entries       int64           `json:"entries"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

type monthSummaryResponse struct {
	Month         string          `json:"month"`
	Entries       int64           `json:"entries"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalCost     decimal.Decimal `json:"total_cost"`
}

type auditRecordResponse struct {
	ID          int64     `json:"id"`
	AccountID   *int64    `json:"account_id,omitempty"`
	Username    string    `json:"username,omitempty"`
	ItemID      *int64    `json:"item_id,omitempty"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    *int64    `json:"entity_id,omitempty"`
	OldValues   any       `json:"old_values,omitempty"`
	NewValues   any       `json:"new_values,omitempty"`
	Description string    `json:"description,omitempty"`
	IPAddress   *string   `json:"ip_address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Dashboard handles GET /api/v1/reports/dashboard. Staff get the stock
// health lists without the valuation figure.
func (h *ReportsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalValuation: d.TotalValuation,
		LowStock:       h.toItems(d.LowStock),
		Expiring:       h.toItems(d.Expiring),
		Expired:        h.toItems(d.Expired),
	})
}

// Valuation handles GET /api/v1/reports/valuation.
func (h *ReportsHandler) Valuation(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.Valuation(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, valuationResponse{TotalValuation: total})
}

// LowStock handles GET /api/v1/reports/low-stock.
func (h *ReportsHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.LowStockItems(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toItems(items))
}

// Expiring handles GET /api/v1/reports/expiring.
func (h *ReportsHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ExpiringItems(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toItems(items))
}

// WasteByReason handles GET /api/v1/reports/waste-by-reason?from=...&to=...
func (h *ReportsHandler) WasteByReason(w http.ResponseWriter, r *http.Request) {
	from, to, err := requiredRange(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rows, err := h.svc.WasteByReason(r.Context(), from, to)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]reasonSummaryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, reasonSummaryResponse{
			Reason:        row.Reason,
			Entries:       row.Entries,
			TotalQuantity: row.TotalQuantity,
			TotalCost:     row.TotalCost,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// WasteByMonth handles GET /api/v1/reports/waste-by-month?from=...&to=...
func (h *ReportsHandler) WasteByMonth(w http.ResponseWriter, r *http.Request) {
	from, to, err := requiredRange(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	rows, err := h.svc.WasteByMonth(r.Context(), from, to)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]monthSummaryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, monthSummaryResponse{
			Month:         row.Month.Format("2006-01"),
			Entries:       row.Entries,
			TotalQuantity: row.TotalQuantity,
			TotalCost:     row.TotalCost,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// Audit handles GET /api/v1/reports/audit with optional filters.
func (h *ReportsHandler) Audit(w http.ResponseWriter, r *http.Request) {
	filter, err := auditFilterFromQuery(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	records, err := h.svc.SearchAudit(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]auditRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, toAuditRecordResponse(&records[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *ReportsHandler) toItems(items []domain.InventoryItem) []itemResponse {
	now := time.Now()
	out := make([]itemResponse, 0, len(items))
	for i := range items {
		it := &items[i]
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
			Status:       h.svc.StatusFor(it, now).String(),
			CreatedAt:    it.CreatedAt,
			UpdatedAt:    it.UpdatedAt,
		}
		if it.ExpirationDate != nil {
			s := it.ExpirationDate.Format(dateParamLayout)
			resp.ExpirationDate = &s
		}
		out = append(out, resp)
	}
	return out
}

func toAuditRecordResponse(rec *domain.AuditRecord) auditRecordResponse {
	return auditRecordResponse{
		ID:          rec.ID,
		AccountID:   rec.AccountID,
		Username:    rec.Username,
		ItemID:      rec.ItemID,
		Action:      rec.Action.String(),
		EntityType:  string(rec.EntityType),
		EntityID:    rec.EntityID,
		OldValues:   rawJSON(rec.OldValues),
		NewValues:   rawJSON(rec.NewValues),
		Description: rec.Description,
		IPAddress:   rec.IPAddress,
		CreatedAt:   rec.CreatedAt,
	}
}

// rawJSON passes stored JSON through without re-encoding.
func rawJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return jsonRaw(b)
}

type jsonRaw []byte

func (r jsonRaw) MarshalJSON() ([]byte, error) { return r, nil }

func requiredRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from == nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("from", "required")
	}
	if to == nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("to", "required")
	}
	return *from, *to, nil
}

func auditFilterFromQuery(r *http.Request) (audit.Filter, error) {
	var filter audit.Filter

	if v := queryInt(r, "account_id"); v > 0 {
		id := int64(v)
		filter.AccountID = &id
	}
	if v := queryInt(r, "item_id"); v > 0 {
		id := int64(v)
		filter.ItemID = &id
	}
	if v := r.URL.Query().Get("action"); v != "" {
		action := domain.AuditAction(v)
		filter.Action = &action
	}
	if v := r.URL.Query().Get("entity_type"); v != "" {
		et := domain.EntityType(v)
		filter.EntityType = &et
	}

	from, err := queryDate(r, "from")
	if err != nil {
		return audit.Filter{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return audit.Filter{}, err
	}
	filter.From = from
	filter.To = to
	filter.Limit = queryInt(r, "limit")
	filter.Offset = queryInt(r, "offset")

	return filter, nil
}
