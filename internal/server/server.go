// Package server exposes the netgraph pipeline and live views over HTTP.
//
// A view is a mounted component held by the server: the server owns its
// zoom and surface size and every PATCH is a trigger that re-renders it.
// One-shot renders go through the cached pipeline runner instead.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/netgraph/internal/metrics"
	"github.com/matzehuels/netgraph/pkg/pipeline"
	"github.com/matzehuels/netgraph/pkg/render/styles"
	"github.com/matzehuels/netgraph/pkg/store"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":8080"

const shutdownTimeout = 30 * time.Second

// Config wires the server to its backends. Runner and Store are required;
// Metrics is optional.
type Config struct {
	Addr           string
	Runner         *pipeline.Runner
	Store          store.Store
	Metrics        *metrics.Registry
	Logger         *log.Logger
	AllowedOrigins []string

	// View defaults.
	Width    float64
	Height   float64
	Style    string
	MaxNodes int
	MaxViews int
}

// Server is the HTTP front end.
type Server struct {
	cfg    Config
	views  *ViewStore
	logger *log.Logger
	router chi.Router
}

// New returns a server with its routes mounted.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Width == 0 {
		cfg.Width = pipeline.DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = pipeline.DefaultHeight
	}
	if cfg.Style == "" {
		cfg.Style = styles.NameDefault
	}
	if cfg.MaxNodes == 0 {
		cfg.MaxNodes = pipeline.DefaultMaxNodes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		cfg:    cfg,
		views:  NewViewStore(cfg.MaxViews),
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Views returns the live view store.
func (s *Server) Views() *ViewStore { return s.views }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	if s.cfg.Metrics != nil {
		r.Use(s.cfg.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Cache"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.listPresets)
			r.Get("/{name}", s.getPreset)
		})

		r.Route("/architectures", func(r chi.Router) {
			r.Get("/", s.listArchitectures)
			r.Post("/", s.saveArchitecture)
			r.Get("/{name}", s.getArchitecture)
			r.Delete("/{name}", s.deleteArchitecture)
		})

		r.Route("/views", func(r chi.Router) {
			r.Get("/", s.listViews)
			r.Post("/", s.createView)
			r.Get("/{id}", s.getView)
			r.Patch("/{id}", s.patchView)
			r.Delete("/{id}", s.deleteView)
			r.Get("/{id}/graph.{format}", s.viewGraph)
		})

		r.Get("/render.{format}", s.render)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.views.Close()
	return err
}

// requestLogger logs one line per request at debug level.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()))
		})
	}
}
