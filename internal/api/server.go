// Package api serves flight sizing and simulations over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness and version
//	POST /v1/size              size a flight given as {"elements": [[...]]}
//	POST /v1/simulate          run a simulation and return its summary
//	GET  /v1/simulate/chart    render the total-moves distribution
//
// Simulations go through a [simulation.Runner], so identical requests are
// served from the configured cache.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flightsizer/pkg/buildinfo"
	"github.com/matzehuels/flightsizer/pkg/cache"
	fserrors "github.com/matzehuels/flightsizer/pkg/errors"
	"github.com/matzehuels/flightsizer/pkg/simulation"
)

const (
	// DefaultMaxTrials caps trials per request when Config.MaxTrials is zero.
	DefaultMaxTrials = 100_000

	// DefaultMaxDimension caps ranks and elements per request when
	// Config.MaxDimension is zero.
	DefaultMaxDimension = 100

	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 1 << 20

	requestTimeout  = 2 * time.Minute
	shutdownTimeout = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Cache     cache.Cache
	Logger    *log.Logger
	MaxTrials int

	// MaxDimension caps the ranks and elements of any flight a request
	// sizes or simulates. It never exceeds errors.MaxDimension.
	MaxDimension int

	// TTL is how long simulation results stay cached.
	TTL time.Duration

	// Defaults supplies fields a simulate request leaves unset.
	Defaults simulation.Options
}

// Server is the HTTP API.
type Server struct {
	runner     *simulation.Runner
	logger     *log.Logger
	maxTrials  int
	maxDim     int
	maxWorkers int
	defaults   simulation.Options
}

// New creates a server. Cache entries are namespaced under "api:" so a
// Redis instance can be shared with CLI users.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	maxTrials := cfg.MaxTrials
	if maxTrials <= 0 {
		maxTrials = DefaultMaxTrials
	}
	maxDim := cfg.MaxDimension
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	maxDim = min(maxDim, fserrors.MaxDimension)
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:")
	runner := simulation.NewRunner(cfg.Cache, keyer, logger)
	runner.TTL = cfg.TTL
	return &Server{
		runner:     runner,
		logger:     logger,
		maxTrials:  maxTrials,
		maxDim:     maxDim,
		maxWorkers: runtime.NumCPU(),
		defaults:   cfg.Defaults,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/size", s.handleSize)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/simulate/chart", s.handleChart)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown failed", "error", err)
		return srv.Close()
	}
	return nil
}

// Close releases the server's cache.
func (s *Server) Close() error {
	return s.runner.Close()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
