package httputil

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token for web
// clients. API clients send the same token in the Authorization header.
const SessionCookieName = "Authorization"

// CookieConfig holds session cookie configuration.
type CookieConfig struct {
	// Production toggles HttpOnly and Secure, matching the deployment
	// behavior of the platform.
	Production bool
}

// SetSessionCookie attaches the session token as a cookie with the given
// lifetime.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: cfg.Production,
		Secure:   cfg.Production,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie (signout).
func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: cfg.Production,
		Secure:   cfg.Production,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionTokenFromCookie extracts the session token from the cookie.
func GetSessionTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
