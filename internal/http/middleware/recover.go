package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/inkpost/inkpost/internal/httputil"
)

// Recover creates middleware that converts handler panics into 500
// responses. Details are logged server-side, never returned to the caller.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"error", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					httputil.Error(w, http.StatusInternalServerError, "server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
