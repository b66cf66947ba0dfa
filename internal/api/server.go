// Package api exposes the HTTP trigger surface for builds.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// DefaultRequestTimeout is the write deadline for a /render response. The
// build itself is never interrupted by it.
const DefaultRequestTimeout = 5 * time.Minute

// Builder runs builds.
type Builder interface {
	Run(ctx context.Context, req build.Request) (*build.Result, error)
}

// PagesFunc returns the configured pages for GET /render.
type PagesFunc func() (page.List, error)

// Options configures the server.
type Options struct {
	Addr  string
	Pages PagesFunc
	Hooks hooks.Set
	// Registry backs /metrics. The route is omitted when nil.
	Registry       *prom.Registry
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server represents the API server.
type Server struct {
	Addr    string
	router  *chi.Mux
	server  *http.Server
	builder Builder
	opts    Options
	errs    *errors.HTTPErrorAdapter
	logger  *slog.Logger
}

// NewServer creates a new API server.
func NewServer(opts Options, builder Builder) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Addr:    opts.Addr,
		router:  chi.NewRouter(),
		builder: builder,
		opts:    opts,
		errs:    errors.NewHTTPErrorAdapter(logger),
		logger:  logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      opts.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	if s.opts.Registry != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics.HTTPHandler(s.opts.Registry))
	}

	s.router.Group(func(r chi.Router) {
		r.Use(buildID)
		r.Get("/render", s.handleRenderConfigured)
		r.Post("/render", s.handleRenderPosted)
	})
}

// Handler returns the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the API server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Ack is the acknowledgment written after a successful build.
type Ack struct {
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
