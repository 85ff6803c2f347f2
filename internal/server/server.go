// Package server exposes the chart pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz               liveness and build version
//	GET  /v1/charts             charts and the formats each accepts
//	GET  /v1/stats              render, cache and request counters
//	POST /v1/render/{chart}     JSON request with CSV text, one artifact back
//	POST /v1/geometry/{shape}   CSV in, CSV with derived columns out
//
// Errors are JSON objects {"code": ..., "message": ...} with the status
// mapped from the error code.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/pdext/pkg/observability"
	"github.com/matzehuels/pdext/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 32 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the render API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	counters *observability.Counters
	maxBody  int64
}

// Option configures a Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies. Values <= 0 keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithCounters exposes c on /v1/stats.
func WithCounters(c *observability.Counters) Option {
	return func(s *Server) { s.counters = c }
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with request ids, logging and panic
// recovery applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/charts", s.charts)
		r.Get("/stats", s.stats)
		r.Post("/render/{chart}", s.render)
		r.Post("/geometry/{shape}", s.geometry)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeStatus(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
