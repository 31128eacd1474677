package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

// activityService defines the minimal interface needed by ActivityHandler.
type activityService interface {
	Recent(ctx context.Context) ([]domain.FeedEvent, error)
	Rebuild(ctx context.Context) (int, error)
}

// ActivityHandler serves the activity feed REST endpoints.
type ActivityHandler struct {
	svc activityService
	log *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(svc activityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: logger.With("handler", "activity")}
}

type feedEventResponse struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Username  string    `json:"username,omitempty"`
	ItemID    *int64    `json:"item_id,omitempty"`
	ItemName  *string   `json:"item_name,omitempty"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

type rebuildResponse struct {
	Events int `json:"events"`
}

// Recent handles GET /api/v1/activity.
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Recent(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]feedEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, feedEventResponse{
			ID:        ev.ID,
			AccountID: ev.AccountID,
			Username:  ev.Username,
			ItemID:    ev.ItemID,
			ItemName:  ev.ItemName,
			Action:    ev.Action,
			CreatedAt: ev.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// Rebuild handles POST /api/v1/activity/rebuild.
func (h *ActivityHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Rebuild(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rebuildResponse{Events: n})
}
