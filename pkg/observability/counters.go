package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies events in memory. It backs the service stats endpoint.
type Counters struct {
	Renders      atomic.Int64
	RenderErrors atomic.Int64
	CacheHits    atomic.Int64
	CacheMisses  atomic.Int64
	CacheBytes   atomic.Int64
	Requests     atomic.Int64
	Errors       atomic.Int64
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Renders      int64 `json:"renders"`
	RenderErrors int64 `json:"render_errors"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	CacheBytes   int64 `json:"cache_bytes_written"`
	Requests     int64 `json:"requests"`
	Errors       int64 `json:"errors"`
}

// Snapshot reads every counter.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Renders:      c.Renders.Load(),
		RenderErrors: c.RenderErrors.Load(),
		CacheHits:    c.CacheHits.Load(),
		CacheMisses:  c.CacheMisses.Load(),
		CacheBytes:   c.CacheBytes.Load(),
		Requests:     c.Requests.Load(),
		Errors:       c.Errors.Load(),
	}
}

func (c *Counters) OnRenderStart(context.Context, string, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ string, _ []string, _ time.Duration, err error) {
	c.Renders.Add(1)
	if err != nil {
		c.RenderErrors.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.CacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.CacheMisses.Add(1) }
func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.CacheBytes.Add(int64(size))
}

func (c *Counters) OnRequest(context.Context, string, string)                      { c.Requests.Add(1) }
func (c *Counters) OnResponse(context.Context, string, string, int, time.Duration) {}
func (c *Counters) OnError(context.Context, string, string, error)                 { c.Errors.Add(1) }

// Multi fans events out to several hook sets.
type Multi []any

func (m Multi) OnRenderStart(ctx context.Context, chart string, formats []string) {
	for _, h := range m {
		if r, ok := h.(RenderHooks); ok {
			r.OnRenderStart(ctx, chart, formats)
		}
	}
}

func (m Multi) OnRenderComplete(ctx context.Context, chart string, formats []string, d time.Duration, err error) {
	for _, h := range m {
		if r, ok := h.(RenderHooks); ok {
			r.OnRenderComplete(ctx, chart, formats, d, err)
		}
	}
}

func (m Multi) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		if c, ok := h.(CacheHooks); ok {
			c.OnCacheHit(ctx, keyType)
		}
	}
}

func (m Multi) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		if c, ok := h.(CacheHooks); ok {
			c.OnCacheMiss(ctx, keyType)
		}
	}
}

func (m Multi) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		if c, ok := h.(CacheHooks); ok {
			c.OnCacheSet(ctx, keyType, size)
		}
	}
}

func (m Multi) OnRequest(ctx context.Context, method, path string) {
	for _, h := range m {
		if x, ok := h.(HTTPHooks); ok {
			x.OnRequest(ctx, method, path)
		}
	}
}

func (m Multi) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	for _, h := range m {
		if x, ok := h.(HTTPHooks); ok {
			x.OnResponse(ctx, method, path, status, d)
		}
	}
}

func (m Multi) OnError(ctx context.Context, method, path string, err error) {
	for _, h := range m {
		if x, ok := h.(HTTPHooks); ok {
			x.OnError(ctx, method, path, err)
		}
	}
}
