package memory

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-frontend/storage"
)

var _ storage.Provider = (*InMemoryProvider)(nil)

// InMemoryProvider keeps every area in process memory. Nothing survives a restart.
type InMemoryProvider struct {
	mu    sync.RWMutex
	areas map[string]map[string]string // scope -> key -> value
}

// NewInMemoryProvider creates an empty provider
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		areas: make(map[string]map[string]string),
	}
}

// NewArea is a shortcut for tests that only need a single area.
func NewArea() storage.Area {
	return &area{provider: NewInMemoryProvider(), scope: "default"}
}

func (p *InMemoryProvider) Area(scope string) (storage.Area, error) {
	if err := storage.ValidateScope(scope); err != nil {
		return nil, err
	}
	return &area{provider: p, scope: scope}, nil
}

func (p *InMemoryProvider) Close() error {
	return nil
}

type area struct {
	provider *InMemoryProvider
	scope    string
}

func (a *area) Get(_ context.Context, key string) (string, bool, error) {
	a.provider.mu.RLock()
	defer a.provider.mu.RUnlock()

	entries, ok := a.provider.areas[a.scope]
	if !ok {
		return "", false, nil
	}
	value, ok := entries[key]
	return value, ok, nil
}

func (a *area) GetMany(_ context.Context, keys ...string) (map[string]string, error) {
	a.provider.mu.RLock()
	defer a.provider.mu.RUnlock()

	out := make(map[string]string, len(keys))
	entries := a.provider.areas[a.scope]
	for _, k := range keys {
		if v, ok := entries[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (a *area) Set(_ context.Context, entries map[string]string) error {
	a.provider.mu.Lock()
	defer a.provider.mu.Unlock()

	// Initialize scope map if it doesn't exist
	if _, ok := a.provider.areas[a.scope]; !ok {
		a.provider.areas[a.scope] = make(map[string]string)
	}
	for k, v := range entries {
		a.provider.areas[a.scope][k] = v
	}
	return nil
}

func (a *area) Remove(_ context.Context, keys ...string) error {
	a.provider.mu.Lock()
	defer a.provider.mu.Unlock()

	entries, ok := a.provider.areas[a.scope]
	if !ok {
		return nil // Already doesn't exist, no error
	}
	for _, k := range keys {
		delete(entries, k)
	}

	// Clean up empty scope map
	if len(entries) == 0 {
		delete(a.provider.areas, a.scope)
	}
	return nil
}
