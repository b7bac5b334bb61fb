package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/inkpost/inkpost/internal/domain"
)

// DefaultCodeTTL is the freshness window for one-time codes. Past it, a
// code is rejected regardless of correctness.
const DefaultCodeTTL = 5 * time.Minute

// VerificationConfig holds one-time-code configuration.
type VerificationConfig struct {
	// HMACSecret keys the stored code hashes.
	HMACSecret []byte
	// CodeTTL is the freshness window. Defaults to DefaultCodeTTL.
	CodeTTL time.Duration
}

// VerificationService issues and verifies emailed one-time codes. The same
// flow backs email verification and password reset: a random numeric code
// is dispatched by mail, its keyed hash and issuance timestamp are stored,
// and a single successful match consumes the challenge.
type VerificationService struct {
	config VerificationConfig
	store  AccountStore
	mailer CodeMailer
	now    func() time.Time
}

// NewVerificationService creates a new verification service.
func NewVerificationService(config VerificationConfig, store AccountStore, mailer CodeMailer) *VerificationService {
	if config.CodeTTL == 0 {
		config.CodeTTL = DefaultCodeTTL
	}
	return &VerificationService{
		config: config,
		store:  store,
		mailer: mailer,
		now:    time.Now,
	}
}

// SendVerificationCode issues an email-verification code. The code hash is
// persisted only after the mail transport accepts the message; a dispatch
// failure leaves any previous challenge untouched. Re-issuing replaces the
// outstanding challenge, so the earlier code becomes unverifiable.
func (s *VerificationService) SendVerificationCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Verified {
		return domain.ErrAlreadyVerified
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}
	if err := s.mailer.SendVerificationCode(account.Email, code); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	return s.store.SetVerificationCode(ctx, account.ID, HashCode(code, s.config.HMACSecret), s.now())
}

// VerifyVerificationCode checks a submitted code against the outstanding
// email-verification challenge. On success the account is marked verified
// and the challenge is cleared; the returned account is ready for session
// issuance.
func (s *VerificationService) VerifyVerificationCode(ctx context.Context, email, code string) (*domain.Account, error) {
	if err := ValidateCode(code); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)

	secrets, err := s.store.GetByEmailWithSecrets(ctx, email)
	if err != nil {
		return nil, err
	}
	if secrets.Verified {
		return nil, domain.ErrAlreadyVerified
	}
	if err := s.checkChallenge(secrets.VerificationCodeHash, secrets.VerificationIssuedAt, code); err != nil {
		return nil, err
	}

	if err := s.store.MarkVerified(ctx, secrets.ID); err != nil {
		return nil, err
	}

	account := secrets.Account
	account.Verified = true
	return &account, nil
}

// SendForgotPasswordCode issues a password-reset code. Unlike verification,
// there is no precondition on the account's verified state.
func (s *VerificationService) SendForgotPasswordCode(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	account, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}
	if err := s.mailer.SendForgotPasswordCode(account.Email, code); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	return s.store.SetForgotPasswordCode(ctx, account.ID, HashCode(code, s.config.HMACSecret), s.now())
}

// VerifyForgotPasswordCode checks a submitted code against the outstanding
// reset challenge and, on match, installs the new password and clears the
// challenge.
func (s *VerificationService) VerifyForgotPasswordCode(ctx context.Context, email, code, newPassword string) error {
	if err := ValidateCode(code); err != nil {
		return err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	email = NormalizeEmail(email)

	secrets, err := s.store.GetByEmailWithSecrets(ctx, email)
	if err != nil {
		return err
	}
	if err := s.checkChallenge(secrets.ForgotPasswordCodeHash, secrets.ForgotPasswordIssuedAt, code); err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.ResetPassword(ctx, secrets.ID, hash)
}

// checkChallenge validates presence, freshness, and match of a submitted
// code against a stored challenge pair.
func (s *VerificationService) checkChallenge(storedHash *string, issuedAt *time.Time, code string) error {
	if storedHash == nil || issuedAt == nil {
		return domain.ErrNoChallenge
	}
	if s.now().Sub(*issuedAt) > s.config.CodeTTL {
		return domain.ErrCodeExpired
	}
	if HashCode(code, s.config.HMACSecret) != *storedHash {
		return domain.ErrInvalidCode
	}
	return nil
}
