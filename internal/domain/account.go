package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the public projection of a registered account. It never
// carries the password hash or any outstanding one-time-code state and is
// safe to serialize in responses.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountSecrets is the internal projection that includes credentials and
// one-time-code state. Only the store's *WithSecrets accessors return it.
type AccountSecrets struct {
	Account

	PasswordHash string

	// At most one outstanding challenge per kind. Hash and issuance
	// timestamp are set together and cleared together.
	VerificationCodeHash   *string
	VerificationIssuedAt   *time.Time
	ForgotPasswordCodeHash *string
	ForgotPasswordIssuedAt *time.Time
}
