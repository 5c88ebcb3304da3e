// Package server exposes the orchestrator over HTTP. It is a thin JSON
// gateway: request handlers translate between HTTP and orchestrator calls
// and never contain conversation logic themselves.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/leadmesh/logging"
	"github.com/hupe1980/leadmesh/orchestrator"
)

// Options configures the HTTP gateway.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// Logger receives request and lifecycle events.
	Logger logging.Logger
	// Registry serves /metrics when non-nil and EnableMetrics is set.
	Registry *prometheus.Registry
	// EnableMetrics mounts the Prometheus handler at MetricsPath.
	EnableMetrics bool
	// MetricsPath defaults to /metrics.
	MetricsPath string
	// RequestLogging emits a debug entry per request when enabled.
	RequestLogging bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the LeadMesh HTTP gateway.
type Server struct {
	orch   *orchestrator.Orchestrator
	logger logging.Logger
	http   *http.Server
	router chi.Router
}

// New constructs the gateway around an orchestrator.
func New(orch *orchestrator.Orchestrator, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:         ":8080",
		Logger:       logging.NoOpLogger{},
		MetricsPath:  "/metrics",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Server{
		orch:   orch,
		logger: opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if opts.RequestLogging {
		r.Use(s.requestLogger)
	}

	r.Get("/health", s.handleHealth)
	if opts.EnableMetrics && opts.Registry != nil {
		r.Get(opts.MetricsPath, promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{sessionID}", s.handleGetSession)
		r.Delete("/sessions/{sessionID}", s.handleDeleteSession)

		r.Post("/messages", s.handlePostMessage)

		r.Get("/agents", s.handleListAgents)
		r.Post("/agents/{agentID}/actions/{action}", s.handleExecuteAction)
	})

	s.router = r
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts serving and blocks until shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server.listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server.shutdown")
	return s.http.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("server.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
