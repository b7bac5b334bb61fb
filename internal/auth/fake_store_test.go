package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/domain"
)

// fakeStore is an in-memory AccountStore for service tests.
type fakeStore struct {
	accounts map[uuid.UUID]*domain.AccountSecrets
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[uuid.UUID]*domain.AccountSecrets)}
}

func (s *fakeStore) Create(ctx context.Context, account *domain.AccountSecrets) error {
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return domain.ErrEmailTaken
		}
		if existing.Handle == account.Handle {
			return domain.ErrHandleTaken
		}
	}
	clone := *account
	s.accounts[account.ID] = &clone
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	secrets, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	public := secrets.Account
	return &public, nil
}

func (s *fakeStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	secrets, err := s.GetByEmailWithSecrets(ctx, email)
	if err != nil {
		return nil, err
	}
	public := secrets.Account
	return &public, nil
}

func (s *fakeStore) GetByIDWithSecrets(ctx context.Context, id uuid.UUID) (*domain.AccountSecrets, error) {
	secrets, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *secrets
	return &clone, nil
}

func (s *fakeStore) GetByEmailWithSecrets(ctx context.Context, email string) (*domain.AccountSecrets, error) {
	for _, secrets := range s.accounts {
		if secrets.Email == email {
			clone := *secrets
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *fakeStore) UpdateHandle(ctx context.Context, id uuid.UUID, handle string) (*domain.Account, error) {
	secrets, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	for otherID, other := range s.accounts {
		if otherID != id && other.Handle == handle {
			return nil, domain.ErrHandleTaken
		}
	}
	secrets.Handle = handle
	secrets.UpdatedAt = time.Now()
	public := secrets.Account
	return &public, nil
}

func (s *fakeStore) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	secrets, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	secrets.PasswordHash = passwordHash
	return nil
}

func (s *fakeStore) SetVerificationCode(ctx context.Context, id uuid.UUID, codeHash string, issuedAt time.Time) error {
	secrets, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	secrets.VerificationCodeHash = &codeHash
	secrets.VerificationIssuedAt = &issuedAt
	return nil
}

func (s *fakeStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	secrets, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	secrets.Verified = true
	secrets.VerificationCodeHash = nil
	secrets.VerificationIssuedAt = nil
	return nil
}

func (s *fakeStore) SetForgotPasswordCode(ctx context.Context, id uuid.UUID, codeHash string, issuedAt time.Time) error {
	secrets, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	secrets.ForgotPasswordCodeHash = &codeHash
	secrets.ForgotPasswordIssuedAt = &issuedAt
	return nil
}

func (s *fakeStore) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	secrets, ok := s.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	secrets.PasswordHash = passwordHash
	secrets.ForgotPasswordCodeHash = nil
	secrets.ForgotPasswordIssuedAt = nil
	return nil
}

// fakeMailer records dispatched codes and can simulate transport
// rejection.
type fakeMailer struct {
	fail  bool
	sent  []string
	codes []string
}

func (m *fakeMailer) SendVerificationCode(to, code string) error {
	return m.send(to, code)
}

func (m *fakeMailer) SendForgotPasswordCode(to, code string) error {
	return m.send(to, code)
}

func (m *fakeMailer) send(to, code string) error {
	if m.fail {
		return errors.New("transport rejected message")
	}
	m.sent = append(m.sent, to)
	m.codes = append(m.codes, code)
	return nil
}

func (m *fakeMailer) lastCode() string {
	if len(m.codes) == 0 {
		return ""
	}
	return m.codes[len(m.codes)-1]
}
