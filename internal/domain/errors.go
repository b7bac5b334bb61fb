package domain

import (
	"errors"
	"fmt"
)

// Account and credential errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrHandleTaken        = errors.New("handle already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrAlreadyVerified    = errors.New("account already verified")
)

// One-time-code errors
var (
	ErrNoChallenge    = errors.New("no code outstanding")
	ErrCodeExpired    = errors.New("code expired")
	ErrInvalidCode    = errors.New("invalid code")
	ErrDispatchFailed = errors.New("code dispatch failed")
)

// Session errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Post errors
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("not the post author")
)

// ValidationError reports a malformed input field. Handlers surface the
// message verbatim with a 400 status.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation constructs a ValidationError.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
