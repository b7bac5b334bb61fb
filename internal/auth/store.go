package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkpost/inkpost/internal/domain"
)

// AccountStore is the credential store contract the auth services depend
// on. Default accessors return the public projection; the *WithSecrets
// accessors additionally load the password hash and one-time-code state.
type AccountStore interface {
	Create(ctx context.Context, account *domain.AccountSecrets) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByIDWithSecrets(ctx context.Context, id uuid.UUID) (*domain.AccountSecrets, error)
	GetByEmailWithSecrets(ctx context.Context, email string) (*domain.AccountSecrets, error)

	UpdateHandle(ctx context.Context, id uuid.UUID, handle string) (*domain.Account, error)
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// SetVerificationCode stores a new verification challenge, replacing
	// any outstanding one. MarkVerified flips the verified flag and clears
	// the challenge in one write.
	SetVerificationCode(ctx context.Context, id uuid.UUID, codeHash string, issuedAt time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error

	// SetForgotPasswordCode stores a new reset challenge, replacing any
	// outstanding one. ResetPassword installs the new hash and clears the
	// challenge in one write.
	SetForgotPasswordCode(ctx context.Context, id uuid.UUID, codeHash string, issuedAt time.Time) error
	ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// CodeMailer dispatches one-time codes. A nil error means the transport
// accepted the message for the recipient.
type CodeMailer interface {
	SendVerificationCode(to, code string) error
	SendForgotPasswordCode(to, code string) error
}
