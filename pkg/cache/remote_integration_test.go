//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set PDEXT_TEST_REDIS_URL / PDEXT_TEST_MONGO_URI to run against live servers.
func TestRemoteBackends_Integration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backends := []struct {
		name string
		env  string
		open func(string) (Cache, error)
	}{
		{"redis", "PDEXT_TEST_REDIS_URL", func(url string) (Cache, error) {
			return NewRedisCache(ctx, url, WithRedisPrefix("pdext-test:"))
		}},
		{"mongo", "PDEXT_TEST_MONGO_URI", func(uri string) (Cache, error) {
			return NewMongoCache(ctx, uri, "pdext_test", "cache")
		}},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			url := os.Getenv(b.env)
			if url == "" {
				t.Skipf("%s not set", b.env)
			}
			c, err := b.open(url)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer c.Close()

			if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, hit, err := c.Get(ctx, "k")
			if err != nil || !hit || string(data) != "v" {
				t.Fatalf("Get = %q, %v, %v", data, hit, err)
			}
			if err := c.(Clearer).Clear(ctx); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Error("entry survived Clear")
			}
		})
	}
}
