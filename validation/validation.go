// Package validation holds the client-side form rules for the login and
// forgot-password screens. Nothing here performs I/O.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the login form will submit.
const MinPasswordLength = 6

// Field names reported by FieldError.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Messages shown next to the offending field.
const (
	MsgEmailRequired    = "Please enter your email"
	MsgEmailInvalid     = "Please enter a valid email address"
	MsgPasswordRequired = "Please enter your password"
	MsgPasswordTooShort = "Password must be at least 6 characters"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a local validation failure. It never leaves the client.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateEmail reports whether s looks like local@domain.tld with no whitespace.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePassword reports whether s has at least MinPasswordLength characters.
func ValidatePassword(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLength
}

// CheckLogin returns the first failing rule for the login form, in display order:
// missing email, invalid email, missing password, short password.
func CheckLogin(email, password string) *FieldError {
	if email == "" {
		return &FieldError{Field: FieldEmail, Message: MsgEmailRequired}
	}
	if !ValidateEmail(email) {
		return &FieldError{Field: FieldEmail, Message: MsgEmailInvalid}
	}
	if password == "" {
		return &FieldError{Field: FieldPassword, Message: MsgPasswordRequired}
	}
	if !ValidatePassword(password) {
		return &FieldError{Field: FieldPassword, Message: MsgPasswordTooShort}
	}
	return nil
}

// CheckEmail validates the forgot-password form. Whitespace-only input counts as missing.
func CheckEmail(email string) *FieldError {
	if strings.TrimSpace(email) == "" {
		return &FieldError{Field: FieldEmail, Message: MsgEmailRequired}
	}
	if !ValidateEmail(email) {
		return &FieldError{Field: FieldEmail, Message: MsgEmailInvalid}
	}
	return nil
}
