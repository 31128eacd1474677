package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/internal/service/credential"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Authenticate(ctx context.Context, input credential.LoginInput) (*credential.AuthResult, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, input credential.ChangePasswordInput) error
}

// AuthHandler serves authentication REST endpoints.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger.With("handler", "auth")}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken        string          `json:"access_token"`
	ExpiresAt          time.Time       `json:"expires_at"`
	MustChangePassword bool            `json:"must_change_password"`
	Account            accountResponse `json:"account"`
}

type accountResponse struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"is_active"`
	MustChangePassword bool       `json:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Authenticate(r.Context(), credential.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:        result.AccessToken,
		ExpiresAt:          result.Session.ExpiresAt,
		MustChangePassword: result.MustChangePassword,
		Account:            toAccountResponse(&result.Account),
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ChangePassword handles POST /api/v1/auth/change-password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.ChangePassword(r.Context(), credential.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toAccountResponse(acc *domain.Account) accountResponse {
	return accountResponse{
		ID:                 acc.ID,
		Username:           acc.Username,
		Email:              acc.Email,
		FullName:           acc.FullName,
		Role:               acc.Role.String(),
		IsActive:           acc.IsActive,
		MustChangePassword: acc.MustChangePassword,
		CreatedAt:          acc.CreatedAt,
		LastLoginAt:        acc.LastLoginAt,
	}
}
