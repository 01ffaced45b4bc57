// Package filestore persists storage areas as one JSON document per scope.
// Documents are replaced with write-to-temp then rename, so a reader in any
// process sees either the previous or the next document, never a partial one.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-auth-frontend/storage"
)

var _ storage.Provider = (*FileProvider)(nil)

type FileProvider struct {
	dir string
	mu  sync.Mutex // serialises read-modify-write within this process
}

// New creates the directory if needed and returns a provider rooted at it.
func New(dir string) (*FileProvider, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("[filestore New] failed to create %s: %w", dir, err)
	}
	return &FileProvider{dir: dir}, nil
}

func (p *FileProvider) Area(scope string) (storage.Area, error) {
	if err := storage.ValidateScope(scope); err != nil {
		return nil, err
	}
	return &area{provider: p, path: filepath.Join(p.dir, scope+".json")}, nil
}

func (p *FileProvider) Close() error {
	return nil
}

type area struct {
	provider *FileProvider
	path     string
}

func (a *area) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	doc, err := a.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[key]
	return v, ok, nil
}

// GetMany filters a single read of the document.
func (a *area) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := a.read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := doc[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (a *area) Set(ctx context.Context, entries map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.provider.mu.Lock()
	defer a.provider.mu.Unlock()

	doc, err := a.read()
	if err != nil {
		return err
	}
	for k, v := range entries {
		doc[k] = v
	}
	return a.write(doc)
}

func (a *area) Remove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.provider.mu.Lock()
	defer a.provider.mu.Unlock()

	doc, err := a.read()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(doc, k)
	}
	if len(doc) == 0 {
		if err := os.Remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("[filestore Remove] failed to remove %s: %w", a.path, err)
		}
		return nil
	}
	return a.write(doc)
}

func (a *area) read() (map[string]string, error) {
	data, err := os.ReadFile(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("[filestore read] failed to read %s: %w", a.path, err)
	}

	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("[filestore read] corrupt document %s: %w", a.path, err)
	}
	return doc, nil
}

func (a *area) write(doc map[string]string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("[filestore write] failed to encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(a.path), filepath.Base(a.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("[filestore write] failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore write] failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore write] failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[filestore write] failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		return fmt.Errorf("[filestore write] failed to replace %s: %w", a.path, err)
	}
	return nil
}
