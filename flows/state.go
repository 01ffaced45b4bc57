// Package flows drives the login and forgot-password screens:
// validation, the API call, session persistence and the resulting navigation.
package flows

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-auth-frontend/authclient"
	"github.com/jrsteele09/go-auth-frontend/navigation"
	"github.com/jrsteele09/go-auth-frontend/validation"
)

// State of a screen. Validating and Submitting are only observable while Submit runs.
type State int

const (
	Idle State = iota
	Validating
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the result of one submission, ready for the shell to render.
type Outcome struct {
	State      State
	FieldError *validation.FieldError // set when validation blocked the submission
	Message    string                 // banner text: success notice or failure reason
	Intent     navigation.Intent
	Generation string
	Email      string // acknowledged address on a confirmed password reset
	Cause      error  // underlying API error for diagnostics; never shown as-is
}

// Authenticator is the part of the API client the login flow needs.
type Authenticator interface {
	Login(ctx context.Context, creds authclient.Credentials) (authclient.LoginResult, error)
}

// PasswordResetter is the part of the API client the forgot-password flow needs.
type PasswordResetter interface {
	RequestPasswordReset(ctx context.Context, email string) (authclient.ResetResult, error)
}

// failureMessage picks the banner text for a failed call: the server's message when
// it sent one, appFallback for an empty application failure, netFallback otherwise.
func failureMessage(err error, appFallback, netFallback string) string {
	var appErr *authclient.ApplicationError
	if errors.As(err, &appErr) {
		if appErr.Message != "" {
			return appErr.Message
		}
		return appFallback
	}
	return netFallback
}

func outcomeLabel(err error) string {
	if authclient.IsApplicationError(err) {
		return "app_error"
	}
	return "network_error"
}
