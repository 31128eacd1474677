package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/brewmetric/brewmetric-backend/internal/adapter/postgres/audit"
)

// exportService defines the minimal interface needed by ExportsHandler.
type exportService interface {
	InventoryCSV(ctx context.Context, w io.Writer) error
	InventoryXLSX(ctx context.Context, w io.Writer) error
	WasteCSV(ctx context.Context, w io.Writer) error
	AuditCSV(ctx context.Context, filter audit.Filter, w io.Writer) error
}

// ExportsHandler serves file export REST endpoints.
type ExportsHandler struct {
	svc exportService
	log *slog.Logger
}

// NewExportsHandler creates an ExportsHandler.
func NewExportsHandler(svc exportService, logger *slog.Logger) *ExportsHandler {
	return &ExportsHandler{svc: svc, log: logger.With("handler", "exports")}
}

// InventoryCSV handles GET /api/v1/exports/inventory.csv.
func (h *ExportsHandler) InventoryCSV(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "inventory", "csv", h.svc.InventoryCSV)
}

// InventoryXLSX handles GET /api/v1/exports/inventory.xlsx.
func (h *ExportsHandler) InventoryXLSX(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "inventory", "xlsx", h.svc.InventoryXLSX)
}

// WasteCSV handles GET /api/v1/exports/waste.csv.
func (h *ExportsHandler) WasteCSV(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "waste", "csv", h.svc.WasteCSV)
}

// AuditCSV handles GET /api/v1/exports/audit.csv with the same filters
// as the audit report.
func (h *ExportsHandler) AuditCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := auditFilterFromQuery(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.serveFile(w, r, "audit", "csv", func(ctx context.Context, out io.Writer) error {
		return h.svc.AuditCSV(ctx, filter, out)
	})
}

// serveFile buffers the export so a failure mid-generation still
// produces a clean error response instead of a truncated download.
func (h *ExportsHandler) serveFile(w http.ResponseWriter, r *http.Request, name, ext string, generate func(ctx context.Context, w io.Writer) error) {
	var buf bytes.Buffer
	if err := generate(r.Context(), &buf); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	filename := fmt.Sprintf("%s_%s.%s", name, time.Now().Format(dateParamLayout), ext)
	contentType := "text/csv"
	if ext == "xlsx" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}
