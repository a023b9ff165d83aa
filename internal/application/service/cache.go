package service

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-level cache for hot read paths. A nil Cache is never
// passed to usecases; they receive a no-op instead when Redis is disabled.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type noopCache struct{}

func NewNoopCache() Cache { return noopCache{} }

func (noopCache) Get(ctx context.Context, key string) ([]byte, error) { return nil, ErrCacheMiss }
func (noopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
func (noopCache) Del(ctx context.Context, keys ...string) error { return nil }
