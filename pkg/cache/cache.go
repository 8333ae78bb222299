// Package cache memoizes placement results.
//
// Every placement is a deterministic function of the motion data, letter,
// turns and sequence context, so caching is a pure optimization: a miss just
// means the engine recomputes. Backends:
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [MemoryCache]: in-process map with TTL and a size bound
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for API servers
//
// Keys come from a [Keyer] so that multi-tenant deployments can namespace
// them with [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
