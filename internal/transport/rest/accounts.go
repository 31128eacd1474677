package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/internal/service/credential"
)

// accountService defines the minimal interface needed by AccountsHandler.
type accountService interface {
	CreateAccount(ctx context.Context, input credential.CreateAccountInput) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	SetAccountActive(ctx context.Context, accountID int64, active bool) error
}

// AccountsHandler serves account management REST endpoints. Every
// operation is admin-only; the services enforce that.
type AccountsHandler struct {
	svc accountService
	log *slog.Logger
}

// NewAccountsHandler creates an AccountsHandler.
func NewAccountsHandler(svc accountService, logger *slog.Logger) *AccountsHandler {
	return &AccountsHandler{svc: svc, log: logger.With("handler", "accounts")}
}

type createAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// Create handles POST /api/v1/accounts.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acc, err := h.svc.CreateAccount(r.Context(), credential.CreateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(acc))
}

// List handles GET /api/v1/accounts.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// SetActive handles PATCH /api/v1/accounts/{id}/active.
func (h *AccountsHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SetAccountActive(r.Context(), id, req.Active); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
