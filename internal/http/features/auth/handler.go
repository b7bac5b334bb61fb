package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/httputil"
)

// Handler handles the credential-lifecycle endpoints: signup, signin,
// signout, and the one-time-code flows.
type Handler struct {
	logger       *slog.Logger
	accounts     *auth.AccountService
	verification *auth.VerificationService
	sessions     *auth.SessionService
	cookieConfig httputil.CookieConfig
}

// NewHandler creates a new auth handler.
func NewHandler(
	logger *slog.Logger,
	accounts *auth.AccountService,
	verification *auth.VerificationService,
	sessions *auth.SessionService,
	cookieConfig httputil.CookieConfig,
) *Handler {
	return &Handler{
		logger:       logger,
		accounts:     accounts,
		verification: verification,
		sessions:     sessions,
		cookieConfig: cookieConfig,
	}
}

// SignupRequest represents a signup request.
type SignupRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest represents a signin request.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SendCodeRequest asks for a one-time code to be emailed.
type SendCodeRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest submits a one-time verification code.
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyForgotPasswordRequest submits a reset code plus the new password.
type VerifyForgotPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// Signup handles account creation.
// POST /v1/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Signup(r.Context(), req.Handle, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("account created", "account_id", account.ID)

	httputil.Success(w, http.StatusCreated, "your account has been created", account)
}

// Signin handles credential login. Sets the session cookie and returns
// the token for API clients.
// POST /v1/auth/signin
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.accounts.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.issueSession(w, account, "logged in successfully")
}

// Signout clears the session cookie. The token itself is stateless, so
// signout is purely a client-side invalidation.
// POST /v1/auth/signout
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	httputil.ClearSessionCookie(w, h.cookieConfig)
	httputil.Success(w, http.StatusOK, "logged out successfully", nil)
}

// SendVerificationCode emails a verification code to an unverified account.
// PATCH /v1/auth/send-verification-code
func (h *Handler) SendVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verification.SendVerificationCode(r.Context(), req.Email); err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "code sent", nil)
}

// VerifyVerificationCode consumes a verification code and, on success,
// issues a session for the now-verified account.
// PATCH /v1/auth/verify-verification-code
func (h *Handler) VerifyVerificationCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.verification.VerifyVerificationCode(r.Context(), req.Email, req.Code)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("account verified", "account_id", account.ID)

	h.issueSession(w, account, "your account has been verified")
}

// SendForgotPasswordCode emails a password-reset code.
// PATCH /v1/auth/send-forgot-password-code
func (h *Handler) SendForgotPasswordCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verification.SendForgotPasswordCode(r.Context(), req.Email); err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "code sent", nil)
}

// VerifyForgotPasswordCode consumes a reset code and installs the new
// password.
// PATCH /v1/auth/verify-forgot-password-code
func (h *Handler) VerifyForgotPasswordCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verification.VerifyForgotPasswordCode(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		h.respondError(w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "password updated", nil)
}

// issueSession mints a session token, attaches it as a cookie, and writes
// the identity plus token in the response envelope.
func (h *Handler) issueSession(w http.ResponseWriter, account *domain.Account, message string) {
	token, err := h.sessions.IssueToken(account)
	if err != nil {
		h.logger.Error("failed to issue session token", "error", err, "account_id", account.ID)
		httputil.Error(w, http.StatusInternalServerError, "server error")
		return
	}

	httputil.SetSessionCookie(w, token, h.sessions.TTL(), h.cookieConfig)
	httputil.JSON(w, http.StatusOK, httputil.Envelope{
		Success: true,
		Message: message,
		Data:    account,
		Token:   token,
	})
}

// respondError maps service errors onto the response envelope. Unexpected
// errors are logged and returned as a generic message.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		httputil.Error(w, http.StatusNotFound, "account does not exist")
	case errors.Is(err, domain.ErrEmailTaken):
		httputil.Error(w, http.StatusConflict, "email already registered")
	case errors.Is(err, domain.ErrHandleTaken):
		httputil.Error(w, http.StatusConflict, "handle already taken")
	case errors.Is(err, domain.ErrNotVerified):
		httputil.Error(w, http.StatusForbidden, "you are not a verified user")
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.Error(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrAlreadyVerified):
		httputil.Error(w, http.StatusBadRequest, "you are already verified")
	case errors.Is(err, domain.ErrNoChallenge):
		httputil.Error(w, http.StatusBadRequest, "no code outstanding")
	case errors.Is(err, domain.ErrCodeExpired):
		httputil.Error(w, http.StatusBadRequest, "code has expired")
	case errors.Is(err, domain.ErrInvalidCode):
		httputil.Error(w, http.StatusBadRequest, "invalid code")
	case errors.Is(err, domain.ErrDispatchFailed):
		httputil.Error(w, http.StatusBadGateway, "code dispatch failed")
	default:
		h.logger.Error("auth request failed", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "server error")
	}
}
