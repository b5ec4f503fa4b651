// Package api provides the HTTP surface of the Glossy server: huma-registered
// operations under /api/v1, the health endpoint, and direct image serving.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/glossyapp/glossy-server/internal/config"
	"github.com/glossyapp/glossy-server/internal/media/images"
	"github.com/glossyapp/glossy-server/internal/store"
	"github.com/glossyapp/glossy-server/internal/store/sqlite"
)

// Version is the reported API version.
const Version = "1.0.0"

// Server holds the HTTP router, the huma API, and everything the handlers
// reach for.
type Server struct {
	store    *store.Store
	history  *sqlite.Store
	services *Services
	storage  *images.Storage
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger

	// aiEndpoint is empty when no generation backend is configured;
	// the health check reports the component as degraded then.
	aiEndpoint string

	authRateLimiter *RateLimiter
}

// NewServer wires the router, middleware, and all route groups.
func NewServer(
	cfg *config.Config,
	st *store.Store,
	history *sqlite.Store,
	storage *images.Storage,
	services *Services,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		history:         history,
		services:        services,
		storage:         storage,
		router:          router,
		api:             api,
		logger:          logger,
		aiEndpoint:      cfg.AI.Endpoint,
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerMagazineRoutes()
	s.registerInteractionRoutes()
	s.registerSocialRoutes()
	s.registerProfileRoutes()

	// Stored images are served straight from disk, outside huma: binary
	// bodies don't go through the response envelope.
	router.Get("/images/{file}", s.handleServeImage)

	return s
}

// Router returns the HTTP handler for the server.
func (s *Server) Router() http.Handler {
	return s.router
}
