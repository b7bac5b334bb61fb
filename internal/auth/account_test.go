package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/inkpost/inkpost/internal/domain"
)

func TestAccountService_Signup(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store)

	account, err := svc.Signup(context.Background(), "alice", "Alice@Example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if account.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased", account.Email)
	}
	if account.Verified {
		t.Error("new account verified, want unverified")
	}

	secrets := store.accounts[account.ID]
	if secrets.PasswordHash == "Abcdefg1" {
		t.Error("password stored in the clear")
	}
	if !VerifyPassword("Abcdefg1", secrets.PasswordHash) {
		t.Error("stored hash does not verify the password")
	}
}

func TestAccountService_Signup_Invalid(t *testing.T) {
	svc := NewAccountService(newFakeStore())

	tests := []struct {
		name     string
		handle   string
		email    string
		password string
	}{
		{"short handle", "ab", "alice@example.com", "Abcdefg1"},
		{"digits in handle", "alice99", "alice@example.com", "Abcdefg1"},
		{"bad email", "alice", "not-an-email", "Abcdefg1"},
		{"weak password", "alice", "alice@example.com", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validationErr *domain.ValidationError
			_, err := svc.Signup(context.Background(), tt.handle, tt.email, tt.password)
			if !errors.As(err, &validationErr) {
				t.Errorf("Signup() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestAccountService_Signup_DuplicateEmail(t *testing.T) {
	svc := NewAccountService(newFakeStore())

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com", "Abcdefg1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	_, err := svc.Signup(context.Background(), "bob", "ALICE@example.com", "Abcdefg1")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

func TestAccountService_Signin(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store)
	secrets := seedAccount(t, store, "alice@example.com", true)

	account, err := svc.Signin(context.Background(), "alice@example.com", "Abcdefg1")
	if err != nil {
		t.Fatalf("Signin() error = %v", err)
	}
	if account.ID != secrets.ID {
		t.Errorf("ID = %v, want %v", account.ID, secrets.ID)
	}
}

func TestAccountService_Signin_UnknownEmail(t *testing.T) {
	svc := NewAccountService(newFakeStore())

	_, err := svc.Signin(context.Background(), "nobody@example.com", "Abcdefg1")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("error = %v, want ErrAccountNotFound", err)
	}
}

func TestAccountService_Signin_Unverified(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store)
	seedAccount(t, store, "alice@example.com", false)

	// The verified gate fires even with the correct password.
	_, err := svc.Signin(context.Background(), "alice@example.com", "Abcdefg1")
	if !errors.Is(err, domain.ErrNotVerified) {
		t.Errorf("error = %v, want ErrNotVerified", err)
	}
}

func TestAccountService_Signin_WrongPassword(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store)
	seedAccount(t, store, "alice@example.com", true)

	_, err := svc.Signin(context.Background(), "alice@example.com", "Wrongpw1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store)
	secrets := seedAccount(t, store, "alice@example.com", true)

	if err := svc.ChangePassword(context.Background(), secrets.ID, "Abcdefg1", "Newpass1"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if !VerifyPassword("Newpass1", secrets.PasswordHash) {
		t.Error("new password does not verify")
	}
	if VerifyPassword("Abcdefg1", secrets.PasswordHash) {
		t.Error("old password still verifies")
	}
}

func TestAccountService_ChangePassword_WrongOld(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store)
	secrets := seedAccount(t, store, "alice@example.com", true)

	err := svc.ChangePassword(context.Background(), secrets.ID, "Newpass1", "Newpass1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
	if !VerifyPassword("Abcdefg1", secrets.PasswordHash) {
		t.Error("password changed despite rejected old password")
	}
}

func TestAccountService_ChangePassword_Unverified(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store)
	secrets := seedAccount(t, store, "alice@example.com", false)

	err := svc.ChangePassword(context.Background(), secrets.ID, "Abcdefg1", "Newpass1")
	if !errors.Is(err, domain.ErrNotVerified) {
		t.Errorf("error = %v, want ErrNotVerified", err)
	}
}

func TestAccountService_UpdateHandle(t *testing.T) {
	store := newFakeStore()
	svc := NewAccountService(store)
	secrets := seedAccount(t, store, "alice@example.com", true)

	account, err := svc.UpdateHandle(context.Background(), secrets.ID, "alicia")
	if err != nil {
		t.Fatalf("UpdateHandle() error = %v", err)
	}
	if account.Handle != "alicia" {
		t.Errorf("Handle = %q, want %q", account.Handle, "alicia")
	}

	var validationErr *domain.ValidationError
	if _, err := svc.UpdateHandle(context.Background(), secrets.ID, "x1"); !errors.As(err, &validationErr) {
		t.Errorf("invalid handle error = %v, want ValidationError", err)
	}
}
