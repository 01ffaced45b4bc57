package authclient

import (
	"errors"
	"fmt"
)

// ApplicationError is a well-formed response that says the operation did not succeed.
type ApplicationError struct {
	Code    int
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("application error (code %d)", e.Code)
	}
	return fmt.Sprintf("application error (code %d): %s", e.Code, e.Message)
}

// NetworkError is a transport failure: dial, timeout, or a response that could not be read.
// Only a generic message derived from it should reach the user.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError records a non-2xx HTTP response whose body carried no usable message.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// IsApplicationError reports whether err is an application-level failure.
func IsApplicationError(err error) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr)
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
