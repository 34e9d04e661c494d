// Package api provides the HTTP server for the ReelTrack library: the huma v1
// API, the legacy /api/library routes and the Prometheus metrics endpoint.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HO1806/reeltrack/internal/sse"
	"github.com/HO1806/reeltrack/internal/store"
)

// Options configures the HTTP middleware stack.
type Options struct {
	// CORSOrigins lists allowed browser origins. Empty allows any origin.
	CORSOrigins []string
	// RateLimitPerMinute caps requests per client IP. Zero disables the limit.
	RateLimitPerMinute int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:    st,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	// chi requires middleware before any route, and humachi registers the
	// docs routes as soon as it is created.
	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("ReelTrack API", "1.0.0")
	humaConfig.Info.Description = "Personal movie and series library"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(corsMiddleware(opts.CORSOrigins))
	s.router.Use(rateLimitMiddleware(opts.RateLimitPerMinute))
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	// Legacy library endpoints kept for existing frontends.
	s.router.Route("/api/library", func(r chi.Router) {
		r.Get("/", s.handleLegacyList)
		r.Post("/", s.handleLegacyUpsert)
		r.Put("/{id}", s.handleLegacyUpdate)
		r.Delete("/{id}", s.handleLegacyDelete)
	})

	s.registerHealthRoutes()
	s.registerEntryRoutes()
	s.registerPickRoutes()
	s.registerSettingsRoutes()
	s.registerNotificationRoutes()
	s.registerImportRoutes()
	s.registerSuggestionRoutes()
	s.registerStatsRoutes()
	s.registerSearchRoutes()
	s.registerMetadataRoutes()
	s.registerSyncRoutes()

	if s.services.Events != nil {
		s.router.Get("/api/v1/events", sse.NewHandler(s.services.Events, s.logger).ServeHTTP)
	}
}
