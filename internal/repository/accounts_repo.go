package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/inkpost/inkpost/internal/domain"
)

// AccountsRepository is the credential store. Default reads omit the
// password hash and one-time-code columns; the *WithSecrets accessors
// request them explicitly.
type AccountsRepository struct {
	db *sql.DB
}

// NewAccountsRepository creates a new accounts repository.
func NewAccountsRepository(db *sql.DB) *AccountsRepository {
	return &AccountsRepository{db: db}
}

// Create inserts a new account. Duplicate handle or email violates a
// unique constraint and is mapped to the corresponding domain error.
func (r *AccountsRepository) Create(ctx context.Context, account *domain.AccountSecrets) error {
	query := `
		INSERT INTO accounts (id, handle, email, password_hash, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Handle, account.Email, account.PasswordHash,
		account.Verified, account.CreatedAt, account.UpdatedAt,
	)
	return mapUniqueViolation(err)
}

// GetByID retrieves the public projection of an account by ID.
func (r *AccountsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, handle, email, verified, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves the public projection of an account by email.
func (r *AccountsRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, handle, email, verified, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// GetByIDWithSecrets retrieves an account by ID including the password
// hash and one-time-code state.
func (r *AccountsRepository) GetByIDWithSecrets(ctx context.Context, id uuid.UUID) (*domain.AccountSecrets, error) {
	query := secretsQuery + ` WHERE id = $1`
	return r.scanSecrets(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmailWithSecrets retrieves an account by email including the
// password hash and one-time-code state.
func (r *AccountsRepository) GetByEmailWithSecrets(ctx context.Context, email string) (*domain.AccountSecrets, error) {
	query := secretsQuery + ` WHERE email = $1`
	return r.scanSecrets(r.db.QueryRowContext(ctx, query, email))
}

// UpdateHandle changes the account handle and returns the updated public
// projection.
func (r *AccountsRepository) UpdateHandle(ctx context.Context, id uuid.UUID, handle string) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET handle = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, handle, email, verified, created_at, updated_at
	`
	account, err := r.scanAccount(r.db.QueryRowContext(ctx, query, id, handle))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return account, nil
}

// SetPassword installs a new password hash.
func (r *AccountsRepository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, passwordHash)
}

// SetVerificationCode stores a verification challenge, replacing any
// outstanding one.
func (r *AccountsRepository) SetVerificationCode(ctx context.Context, id uuid.UUID, codeHash string, issuedAt time.Time) error {
	query := `
		UPDATE accounts
		SET verification_code_hash = $2, verification_issued_at = $3, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, codeHash, issuedAt)
}

// MarkVerified flips the verified flag and clears the verification
// challenge in a single write.
func (r *AccountsRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE accounts
		SET verified = TRUE, verification_code_hash = NULL, verification_issued_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id)
}

// SetForgotPasswordCode stores a reset challenge, replacing any
// outstanding one.
func (r *AccountsRepository) SetForgotPasswordCode(ctx context.Context, id uuid.UUID, codeHash string, issuedAt time.Time) error {
	query := `
		UPDATE accounts
		SET forgot_password_code_hash = $2, forgot_password_issued_at = $3, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, codeHash, issuedAt)
}

// ResetPassword installs a new password hash and clears the reset
// challenge in a single write.
func (r *AccountsRepository) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, forgot_password_code_hash = NULL, forgot_password_issued_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, id, passwordHash)
}

const secretsQuery = `
	SELECT id, handle, email, verified, created_at, updated_at,
	       password_hash,
	       verification_code_hash, verification_issued_at,
	       forgot_password_code_hash, forgot_password_issued_at
	FROM accounts`

func (r *AccountsRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID, &account.Handle, &account.Email, &account.Verified,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountsRepository) scanSecrets(row *sql.Row) (*domain.AccountSecrets, error) {
	account := &domain.AccountSecrets{}
	err := row.Scan(
		&account.ID, &account.Handle, &account.Email, &account.Verified,
		&account.CreatedAt, &account.UpdatedAt,
		&account.PasswordHash,
		&account.VerificationCodeHash, &account.VerificationIssuedAt,
		&account.ForgotPasswordCodeHash, &account.ForgotPasswordIssuedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountsRepository) exec(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// mapUniqueViolation converts a Postgres unique-constraint violation into
// the matching domain error.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if pqErr.Constraint == "accounts_handle_key" {
			return domain.ErrHandleTaken
		}
		return domain.ErrEmailTaken
	}
	return err
}
