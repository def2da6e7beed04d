package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/statusteacher/statusteacher/internal/a2a"
	"github.com/statusteacher/statusteacher/internal/api/handlers"
	"github.com/statusteacher/statusteacher/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes.
func NewRouter(h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(middleware.NewAPIKeyAuth(h.Config.APIKeys).Middleware)

	// A2A discovery
	r.Get("/.well-known/agent.json", h.AgentCard)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/explain", h.ExplainCode)
		r.Get("/codes", h.ListCodes)
	})

	r.Post(a2a.EndpointPath, h.A2AEndpoint)

	return r
}
