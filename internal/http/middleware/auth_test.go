package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/domain"
	"github.com/inkpost/inkpost/internal/httputil"
)

func testSessions(t *testing.T) (*auth.SessionService, string, uuid.UUID) {
	t.Helper()
	sessions := auth.NewSessionService(auth.SessionConfig{
		Secret: []byte("gate-test-secret"),
		Issuer: "inkpost-test",
	})
	accountID := uuid.New()
	token, err := sessions.IssueToken(&domain.Account{
		ID:        accountID,
		Handle:    "alice",
		Email:     "alice@example.com",
		Verified:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	return sessions, token, accountID
}

func gatedEcho(sessions *auth.SessionService, got *auth.Identity) http.Handler {
	return Gate(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok {
			http.Error(w, "no identity in context", http.StatusInternalServerError)
			return
		}
		*got = identity
		w.WriteHeader(http.StatusOK)
	}))
}

func TestGate_BearerHeader(t *testing.T) {
	sessions, token, accountID := testSessions(t)
	var got auth.Identity
	handler := gatedEcho(sessions, &got)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.AccountID != accountID {
		t.Errorf("AccountID = %v, want %v", got.AccountID, accountID)
	}
	if got.Email != "alice@example.com" || !got.Verified {
		t.Errorf("identity = %+v, want alice verified", got)
	}
}

func TestGate_RawHeader(t *testing.T) {
	sessions, token, _ := testSessions(t)
	var got auth.Identity
	handler := gatedEcho(sessions, &got)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestGate_CookieFallback(t *testing.T) {
	sessions, token, _ := testSessions(t)
	var got auth.Identity
	handler := gatedEcho(sessions, &got)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: httputil.SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestGate_MissingToken(t *testing.T) {
	sessions, _, _ := testSessions(t)
	var got auth.Identity
	handler := gatedEcho(sessions, &got)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGate_GarbageToken(t *testing.T) {
	sessions, _, _ := testSessions(t)
	var got auth.Identity
	handler := gatedEcho(sessions, &got)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestGate_WrongSecret(t *testing.T) {
	_, token, _ := testSessions(t)
	other := auth.NewSessionService(auth.SessionConfig{Secret: []byte("different-secret")})
	var got auth.Identity
	handler := gatedEcho(other, &got)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireVerified(t *testing.T) {
	handler := RequireVerified()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("verified passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/me/change-password", nil)
		req = req.WithContext(WithIdentity(req.Context(), auth.Identity{
			AccountID: uuid.New(), Email: "alice@example.com", Verified: true,
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("unverified forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/me/change-password", nil)
		req = req.WithContext(WithIdentity(req.Context(), auth.Identity{
			AccountID: uuid.New(), Email: "alice@example.com",
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("no identity unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/me/change-password", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
