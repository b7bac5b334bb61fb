package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkpost/inkpost/internal/domain"
)

// AccountService handles signup, signin, and authenticated credential and
// profile changes.
type AccountService struct {
	store AccountStore
	now   func() time.Time
}

// NewAccountService creates a new account service.
func NewAccountService(store AccountStore) *AccountService {
	return &AccountService{
		store: store,
		now:   time.Now,
	}
}

// Signup validates inputs and creates an unverified account.
func (s *AccountService) Signup(ctx context.Context, handle, email, password string) (*domain.Account, error) {
	if err := ValidateHandle(handle); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	account := &domain.AccountSecrets{
		Account: domain.Account{
			ID:        uuid.New(),
			Handle:    handle,
			Email:     email,
			Verified:  false,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: hash,
	}

	if err := s.store.Create(ctx, account); err != nil {
		return nil, err
	}

	public := account.Account
	return &public, nil
}

// Signin verifies credentials and returns the account on success.
// Not-found, not-verified, and invalid-credentials are distinct errors and
// surface as distinct responses.
func (s *AccountService) Signin(ctx context.Context, email, password string) (*domain.Account, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	secrets, err := s.store.GetByEmailWithSecrets(ctx, email)
	if err != nil {
		return nil, err
	}
	if !secrets.Verified {
		return nil, domain.ErrNotVerified
	}
	if !VerifyPassword(password, secrets.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	public := secrets.Account
	return &public, nil
}

// ChangePassword re-verifies the current password before installing a new
// one. Only verified accounts may change their password.
func (s *AccountService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	secrets, err := s.store.GetByIDWithSecrets(ctx, id)
	if err != nil {
		return err
	}
	if !secrets.Verified {
		return domain.ErrNotVerified
	}
	if !VerifyPassword(oldPassword, secrets.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.SetPassword(ctx, id, hash)
}

// UpdateHandle changes the account's handle.
func (s *AccountService) UpdateHandle(ctx context.Context, id uuid.UUID, handle string) (*domain.Account, error) {
	if err := ValidateHandle(handle); err != nil {
		return nil, err
	}
	return s.store.UpdateHandle(ctx, id, handle)
}

// GetByID retrieves the public projection of an account.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.store.GetByID(ctx, id)
}
