package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a cache backend. It is the [cache] table
// of the configuration file.
type Config struct {
	Backend  string `toml:"backend" json:"backend"`
	Dir      string `toml:"dir" json:"dir,omitempty"`
	RedisURL string `toml:"redis_url" json:"redis_url,omitempty"`
	// Prefix namespaces keys on shared remote backends.
	Prefix          string   `toml:"prefix" json:"prefix,omitempty"`
	MongoURI        string   `toml:"mongo_uri" json:"mongo_uri,omitempty"`
	MongoDatabase   string   `toml:"mongo_database" json:"mongo_database,omitempty"`
	MongoCollection string   `toml:"mongo_collection" json:"mongo_collection,omitempty"`
	TTL             Duration `toml:"ttl" json:"ttl,omitempty"`
}

// Duration is a time.Duration that decodes from strings like "72h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// DefaultDir returns the file cache location under the user cache
// directory.
func DefaultDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "pdext")
}

// ArtifactTTL returns the configured artifact lifetime or [TTLArtifact].
func (c Config) ArtifactTTL() time.Duration {
	if c.TTL.Duration > 0 {
		return c.TTL.Duration
	}
	return TTLArtifact
}

// Open builds the configured backend. An empty backend means a file cache
// in Dir, defaulting to [DefaultDir].
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFileCache(dir)
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis backend needs redis_url")
		}
		return NewRedisCache(ctx, cfg.RedisURL, WithRedisPrefix(cfg.Prefix))
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("mongo backend needs mongo_uri")
		}
		return NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Backend)
}
