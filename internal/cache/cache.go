package cache

import (
	"context"
	"time"
)

// Cache is a JSON key-value store with per-key TTL. Get returns
// custom_errors.ErrCacheMiss for absent or expired keys.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}
