package middleware

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/httputil"
)

// RequireVerified creates middleware that rejects unverified identities.
// Must be used after Gate.
func RequireVerified() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !identity.Verified {
				httputil.Error(w, http.StatusForbidden, "account verification required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
