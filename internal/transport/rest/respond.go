package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
)

const dateParamLayout = "2006-01-02"

type errorResponse struct {
	Error  string             `json:"error"`
	Fields []fieldErrResponse `json:"fields,omitempty"`
}

type fieldErrResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps service errors to HTTP responses. All handlers route
// their failures through here so the status mapping stays in one place.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		fields := make([]fieldErrResponse, 0, len(valErr.Errors))
		for _, fe := range valErr.Errors {
			fields = append(fields, fieldErrResponse{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
		return
	}

	var polErr *domain.PasswordPolicyError
	if errors.As(err, &polErr) {
		fields := make([]fieldErrResponse, 0, len(polErr.Missing))
		for _, m := range polErr.Missing {
			fields = append(fields, fieldErrResponse{Field: "password", Message: m})
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password does not meet policy", Fields: fields})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "password does not meet policy")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "modified concurrently, reload and retry")
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient stock")
	case errors.Is(err, domain.ErrStorageTimeout), errors.Is(err, domain.ErrStorageUnavailable):
		log.ErrorContext(r.Context(), "storage unavailable", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses the {id} path parameter.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}
