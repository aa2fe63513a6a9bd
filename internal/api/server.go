// Package api provides the HTTP API server and handlers for the Inkwell application.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *service.Services
	router   *chi.Mux
	api      huma.API
	logger   *logger.Logger

	// authLimiter throttles credential endpoints per client IP.
	authLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *service.Services, log *logger.Logger) *Server {
	s := &Server{
		store:       st,
		services:    services,
		router:      chi.NewRouter(),
		logger:      log,
		authLimiter: NewAuthRateLimiter(),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Inkwell API", "1.0.0")
	humaConfig.Info.Description = "REST API for the Inkwell content-sharing service"
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
			Description:  "PASETO v4.local access token",
		},
	}

	RegisterErrorHandler()

	s.api = humachi.New(s.router, humaConfig)

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerWorkRoutes()
	s.registerTagRoutes()
	s.registerCommentRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(s.rateLimitAuthEndpoints)
}
