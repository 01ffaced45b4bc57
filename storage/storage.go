// Package storage defines the scoped key/value areas that hold client state,
// the way a browser origin owns its own local storage.
package storage

import (
	"context"
	"fmt"
	"strings"

	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
)

// Area is one scope's key/value map. Set and Remove apply all of their keys in
// a single step, and GetMany reads all of its keys from a single snapshot, so a
// reader never sees part of a concurrent change.
type Area interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// GetMany returns the keys that are present. Missing keys are absent from the map.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, entries map[string]string) error
	Remove(ctx context.Context, keys ...string) error
}

// Provider hands out areas. Areas with different scopes never see each other's keys.
type Provider interface {
	Area(scope string) (Area, error)
	Close() error
}

// ValidateScope rejects scopes that could escape their namespace in a file path or key prefix.
func ValidateScope(scope string) error {
	switch {
	case scope == "":
		return fmt.Errorf("[storage ValidateScope] empty scope: %w", autherrors.ErrInvalidScope)
	case len(scope) > 128:
		return fmt.Errorf("[storage ValidateScope] scope too long: %w", autherrors.ErrInvalidScope)
	case strings.ContainsAny(scope, `/\:*?"<>| `) || strings.Contains(scope, ".."):
		return fmt.Errorf("[storage ValidateScope] scope %q contains reserved characters: %w", scope, autherrors.ErrInvalidScope)
	}
	return nil
}
