package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/inkpost/inkpost/internal/domain"
)

// DefaultSessionTTL is the fixed validity window of a session token.
const DefaultSessionTTL = 8 * time.Hour

// SessionConfig holds session token configuration.
type SessionConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// SessionService mints and validates stateless session tokens. Tokens are
// opaque to the server once issued: there is no revocation list, and
// signout is a client-side cookie clear.
type SessionService struct {
	config SessionConfig
	now    func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(config SessionConfig) *SessionService {
	if config.TTL == 0 {
		config.TTL = DefaultSessionTTL
	}
	return &SessionService{
		config: config,
		now:    time.Now,
	}
}

// TTL returns the session token lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.config.TTL
}

// IssueToken signs a session token bound to the account's identity and
// verification status.
func (s *SessionService) IssueToken(account *domain.Account) (string, error) {
	now := s.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			Issuer:    s.config.Issuer,
		},
		Email:    account.Email,
		Verified: account.Verified,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.config.Secret)
}

// ValidateToken parses and verifies a session token, returning its claims.
func (s *SessionService) ValidateToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Identity is the authenticated identity decoded from a session token. It
// lives for a single request; no cross-request caching.
type Identity struct {
	AccountID uuid.UUID
	Email     string
	Verified  bool
}

// IdentityFromClaims converts validated claims into an Identity.
func IdentityFromClaims(claims *SessionClaims) (Identity, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, domain.ErrInvalidToken
	}
	return Identity{
		AccountID: id,
		Email:     claims.Email,
		Verified:  claims.Verified,
	}, nil
}
