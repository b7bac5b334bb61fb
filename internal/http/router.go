package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/config"
	authfeature "github.com/inkpost/inkpost/internal/http/features/auth"
	"github.com/inkpost/inkpost/internal/http/features/me"
	"github.com/inkpost/inkpost/internal/http/features/posts"
	"github.com/inkpost/inkpost/internal/http/middleware"
	"github.com/inkpost/inkpost/internal/httputil"
	"github.com/inkpost/inkpost/internal/repository"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger              *slog.Logger
	AccountService      *auth.AccountService
	VerificationService *auth.VerificationService
	SessionService      *auth.SessionService
	PostsRepo           *repository.PostsRepository
	CookieConfig        httputil.CookieConfig
	RateLimitConfig     config.RateLimitConfig
	SecurityHeaders     config.SecurityHeadersConfig
	MaxRequestBodySize  int64
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.MaxRequestBodySize))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)
	gate := middleware.Gate(cfg.SessionService)

	authHandler := authfeature.NewHandler(
		cfg.Logger,
		cfg.AccountService,
		cfg.VerificationService,
		cfg.SessionService,
		cfg.CookieConfig,
	)
	r.Route("/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimiters["auth"])
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
		})
		r.With(gate).Post("/signout", authHandler.Signout)
		r.Group(func(r chi.Router) {
			r.Use(rateLimiters["code"])
			r.Patch("/send-verification-code", authHandler.SendVerificationCode)
			r.Patch("/verify-verification-code", authHandler.VerifyVerificationCode)
			r.Patch("/send-forgot-password-code", authHandler.SendForgotPasswordCode)
			r.Patch("/verify-forgot-password-code", authHandler.VerifyForgotPasswordCode)
		})
	})

	meHandler := me.NewHandler(cfg.Logger, cfg.AccountService)
	r.Route("/v1/me", func(r chi.Router) {
		r.Use(gate)
		r.Use(rateLimiters["profile"])
		r.Get("/", meHandler.GetMe)
		r.Patch("/profile", meHandler.UpdateProfile)
		r.With(middleware.RequireVerified()).Patch("/change-password", meHandler.ChangePassword)
	})

	postsHandler := posts.NewHandler(cfg.Logger, cfg.PostsRepo)
	r.Route("/v1/posts", func(r chi.Router) {
		r.Get("/", postsHandler.List)
		r.Get("/{id}", postsHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(gate)
			r.Post("/", postsHandler.Create)
			r.Put("/{id}", postsHandler.Update)
			r.Delete("/{id}", postsHandler.Delete)
		})
	})

	return r
}
