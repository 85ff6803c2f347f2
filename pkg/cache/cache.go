// Package cache stores rendered chart artifacts between runs.
//
// A [Cache] is a plain byte store with per-entry expiry. Four backends are
// provided:
//
//   - [FileCache]: JSON entry files under a directory, for CLI usage
//   - [RedisCache]: a Redis server, for the HTTP service
//   - [MongoCache]: one MongoDB document per key with a TTL index
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are built by a [Keyer] so that all callers agree on the key layout.
// [Open] picks a backend from a [Config].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// Expired entries are a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default lifetimes per entry kind.
const (
	// TTLArtifact is the lifetime of rendered chart outputs.
	TTLArtifact = 7 * 24 * time.Hour
	// TTLGeometry is the lifetime of derived geometry tables.
	TTLGeometry = 24 * time.Hour
)
