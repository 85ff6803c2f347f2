package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pdext/pkg/cache"
	"github.com/matzehuels/pdext/pkg/errors"
	"github.com/matzehuels/pdext/pkg/frame"
	"github.com/matzehuels/pdext/pkg/geometry"
	"github.com/matzehuels/pdext/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeArtifact = "artifact"
	keyTypeGeometry = "geometry"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner holds no per-run state; multiple goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the artifact lifetime. Zero means [cache.TTLArtifact].
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// Execute builds one chart from f and renders every requested format.
// Formats already in the cache are served from it; the chart is built at
// most once for the rest.
func (r *Runner) Execute(ctx context.Context, f *frame.Frame, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input frame")
	}
	logger := opts.Logger

	hash, err := f.Hash()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash frame")
	}
	result := &Result{
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		FrameHash: hash,
		Stats:     Stats{Rows: f.Len()},
	}

	keys := make(map[string]string, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		ko, err := opts.ArtifactKeyOpts(format)
		if err != nil {
			return nil, err
		}
		keys[format] = r.Keyer.ArtifactKey(hash, ko)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, keys[format]); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
				result.Artifacts[format] = data
				result.CacheInfo.Hits = append(result.CacheInfo.Hits, format)
				continue
			} else if err != nil {
				logger.Warn("cache lookup failed", "format", format, "err", err)
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		missing = append(missing, format)
	}
	result.CacheInfo.Misses = missing
	result.CacheInfo.RenderHit = len(missing) == 0

	if len(missing) > 0 {
		observability.Render().OnRenderStart(ctx, opts.Chart, missing)
		rendered, err := r.build(ctx, f, opts, missing, result)
		observability.Render().OnRenderComplete(ctx, opts.Chart, missing, result.Stats.BuildTime+result.Stats.RenderTime, err)
		if err != nil {
			return nil, err
		}
		for format, data := range rendered {
			result.Artifacts[format] = data
			if err := r.Cache.Set(ctx, keys[format], data, r.ttl()); err != nil {
				logger.Warn("cache store failed", "format", format, "err", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	for _, data := range result.Artifacts {
		result.Stats.Bytes += len(data)
	}
	logger.Info("rendered chart",
		"chart", opts.Chart,
		"formats", opts.Formats,
		"cached", len(result.CacheInfo.Hits),
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.BuildTime+result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) build(ctx context.Context, f *frame.Frame, opts Options, formats []string, result *Result) (map[string][]byte, error) {
	sub := opts
	sub.Formats = formats

	start := time.Now()
	b, err := Build(f, sub)
	if err != nil {
		return nil, err
	}
	result.Chart = b.Value
	result.Stats.BuildTime = time.Since(start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	artifacts, err := Render(b, formats, opts.DPI)
	result.Stats.RenderTime = time.Since(start)
	return artifacts, err
}

// Geometry adds the derived columns of shape to f and returns the frame as
// CSV. Results are cached by frame content. f is modified on a miss.
func (r *Runner) Geometry(ctx context.Context, f *frame.Frame, shape geometry.Shape, radius string) ([]byte, bool, error) {
	hash, err := f.Hash()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash frame")
	}
	key := r.Keyer.GeometryKey(hash, cache.GeometryKeyOpts{Shape: string(shape), Radius: radius})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeGeometry)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeGeometry)

	if err := geometry.Apply(shape, f, radius); err != nil {
		return nil, false, err
	}
	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "write csv")
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLGeometry); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypeGeometry, buf.Len())
	}
	r.Logger.Debug("computed geometry", "shape", shape, "rows", f.Len())
	return buf.Bytes(), false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
