package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-auth-frontend/internal/config"
	"github.com/jrsteele09/go-auth-frontend/storage"
	"github.com/jrsteele09/go-auth-frontend/storage/filestore"
	"github.com/jrsteele09/go-auth-frontend/storage/memory"
	"github.com/jrsteele09/go-auth-frontend/storage/redisstore"
	"github.com/rs/zerolog/log"
)

const redisDialTimeout = 5 * time.Second

// openStorage builds the provider selected by STORAGE_BACKEND.
func openStorage(ctx context.Context, cfg config.Config) (storage.Provider, error) {
	backend := cfg.GetStorageBackend()
	log.Debug().Str("backend", backend).Msg("Opening session storage")

	switch backend {
	case config.StorageMemory:
		return memory.NewInMemoryProvider(), nil
	case config.StorageFile:
		return filestore.New(cfg.GetDataFolder())
	case config.StorageRedis:
		ctx, cancel := context.WithTimeout(ctx, redisDialTimeout)
		defer cancel()
		return redisstore.Dial(ctx, cfg.GetRedisAddr(), cfg.GetRedisPassword(), cfg.GetRedisDB(), cfg.GetRedisPrefix())
	}
	return nil, fmt.Errorf("unknown storage backend %q (want %s, %s or %s)",
		backend, config.StorageMemory, config.StorageFile, config.StorageRedis)
}
