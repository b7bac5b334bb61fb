package me

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/http/middleware"
	"github.com/inkpost/inkpost/internal/httputil"
)

// Handler handles authenticated account endpoints.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
}

// NewHandler creates a new me handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService) *Handler {
	return &Handler{
		logger:   logger,
		accounts: accounts,
	}
}

// UpdateProfileRequest represents a profile update.
type UpdateProfileRequest struct {
	Handle string `json:"handle"`
}

// ChangePasswordRequest represents an authenticated password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// GetMe returns the authenticated account, secrets excluded.
// GET /v1/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account, err := h.accounts.GetByID(r.Context(), identity.AccountID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "authenticated account", account)
}

// UpdateProfile changes the account handle.
// PATCH /v1/me/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.UpdateHandle(r.Context(), identity.AccountID, req.Handle)
	if err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "profile updated", account)
}

// ChangePassword re-verifies the current password before installing a new
// one. Requires a verified account.
// PATCH /v1/me/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), identity.AccountID, req.OldPassword, req.NewPassword); err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("password changed", "account_id", identity.AccountID)

	httputil.Success(w, http.StatusOK, "password updated", nil)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		httputil.Error(w, http.StatusNotFound, "account does not exist")
	case errors.Is(err, domain.ErrHandleTaken):
		httputil.Error(w, http.StatusConflict, "handle already taken")
	case errors.Is(err, domain.ErrNotVerified):
		httputil.Error(w, http.StatusForbidden, "you are not a verified user")
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.Error(w, http.StatusUnauthorized, "invalid credentials")
	default:
		h.logger.Error("account request failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "server error")
	}
}
