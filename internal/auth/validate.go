package auth

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/inkpost/inkpost/internal/domain"
)

const (
	minHandleLen = 3
	maxHandleLen = 30

	minEmailLen = 5
	maxEmailLen = 60

	minPasswordLen = 8
)

// ValidateHandle checks the handle format: 3-30 characters, letters only.
func ValidateHandle(handle string) error {
	if handle == "" {
		return domain.Validation("handle", "is required")
	}
	if len(handle) < minHandleLen {
		return domain.Validation("handle", "must be at least 3 characters")
	}
	if len(handle) > maxHandleLen {
		return domain.Validation("handle", "must be at most 30 characters")
	}
	for _, r := range handle {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return domain.Validation("handle", "may only contain letters")
		}
	}
	return nil
}

// ValidateEmail checks the email format and length.
func ValidateEmail(email string) error {
	if email == "" {
		return domain.Validation("email", "is required")
	}
	if len(email) < minEmailLen {
		return domain.Validation("email", "must be at least 5 characters")
	}
	if len(email) > maxEmailLen {
		return domain.Validation("email", "must be at most 60 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.Validation("email", "is not a valid address")
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address. Emails are stored
// and looked up in normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword checks the password policy: minimum 8 characters with
// at least one lowercase letter, one uppercase letter, and one digit.
func ValidatePassword(password string) error {
	if password == "" {
		return domain.Validation("password", "is required")
	}
	if len(password) < minPasswordLen {
		return domain.Validation("password", "must be at least 8 characters")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower {
		return domain.Validation("password", "must contain a lowercase letter")
	}
	if !upper {
		return domain.Validation("password", "must contain an uppercase letter")
	}
	if !digit {
		return domain.Validation("password", "must contain a digit")
	}
	return nil
}

// ValidateCode checks that a submitted one-time code is a 1-6 digit
// numeric string. Codes are generated without left zero padding.
func ValidateCode(code string) error {
	if code == "" {
		return domain.Validation("code", "is required")
	}
	if len(code) > 6 {
		return domain.Validation("code", "must be at most 6 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return domain.Validation("code", "must be numeric")
		}
	}
	return nil
}
