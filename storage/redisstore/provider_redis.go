// Package redisstore keeps storage areas in Redis so several frontend
// processes can share client state. Keys are laid out as prefix:scope:key.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	autherrors "github.com/jrsteele09/go-auth-frontend/internal/errors"
	"github.com/jrsteele09/go-auth-frontend/storage"
	"github.com/redis/go-redis/v9"
)

var _ storage.Provider = (*RedisProvider)(nil)

type RedisProvider struct {
	client redis.UniversalClient
	prefix string
}

// New wraps an existing client. The provider closes the client on Close.
func New(client redis.UniversalClient, prefix string) *RedisProvider {
	return &RedisProvider{client: client, prefix: prefix}
}

// Dial connects to addr and verifies the server answers before returning.
func Dial(ctx context.Context, addr, password string, db int, prefix string) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[redisstore Dial] %s: %w: %v", addr, autherrors.ErrStorageUnavailable, err)
	}
	return New(client, prefix), nil
}

func (p *RedisProvider) Area(scope string) (storage.Area, error) {
	if err := storage.ValidateScope(scope); err != nil {
		return nil, err
	}
	return &area{client: p.client, keyPrefix: p.prefix + ":" + scope + ":"}, nil
}

func (p *RedisProvider) Close() error {
	return p.client.Close()
}

type area struct {
	client    redis.UniversalClient
	keyPrefix string
}

func (a *area) key(k string) string {
	return a.keyPrefix + k
}

func (a *area) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := a.client.Get(ctx, a.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[redisstore Get] %s: %w", key, err)
	}
	return v, true, nil
}

// GetMany reads every key with a single MGET.
func (a *area) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, a.key(k))
	}
	values, err := a.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("[redisstore GetMany] %w", err)
	}
	for i, v := range values {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

// Set writes all entries inside MULTI/EXEC.
func (a *area) Set(ctx context.Context, entries map[string]string) error {
	_, err := a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, a.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("[redisstore Set] %w", err)
	}
	return nil
}

// Remove deletes every key with a single DEL, which Redis applies atomically.
func (a *area) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, a.key(k))
	}
	if err := a.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("[redisstore Remove] %w", err)
	}
	return nil
}
