package errors

import (
	"errors"
	"fmt"
)

// Common error types for the authentication frontend
var (
	// Session errors
	ErrNoSession      = errors.New("no session")
	ErrMalformedEntry = errors.New("malformed session entry")

	// Flow errors
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrStaleResponse        = errors.New("response belongs to a superseded submission")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidScope       = errors.New("invalid storage scope")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
