// Package cache defines a small read-through cache interface plus its Redis
// implementation. The cache is optional: callers hold a nil Cache when no
// Redis is configured and skip it.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
