// Package server wires the status code teacher together: configuration,
// tracing, the explanation cache, the AI provider, the explanation service
// and the HTTP router.
//
// Usage:
//
//	cfg, err := config.Load()
//	srv, err := server.New(ctx, cfg)
//	defer srv.Close(ctx)
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/statusteacher/statusteacher/internal/api"
	"github.com/statusteacher/statusteacher/internal/api/handlers"
	"github.com/statusteacher/statusteacher/internal/cache"
	"github.com/statusteacher/statusteacher/internal/catalog"
	"github.com/statusteacher/statusteacher/internal/config"
	"github.com/statusteacher/statusteacher/internal/explain"
	"github.com/statusteacher/statusteacher/internal/provider"
	"github.com/statusteacher/statusteacher/internal/telemetry"
)

// Server holds the initialized components.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Explain is the explanation service, shared by HTTP and CLI.
	Explain *explain.Service

	// Catalog is the static status code list.
	Catalog *catalog.Catalog

	// Config is the loaded configuration.
	Config *config.Config

	closers  []io.Closer
	shutdown telemetry.Shutdown
}

// New initializes every component from cfg. Selectors are resolved here,
// exactly once.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	explanationCache, err := cache.NewRegistry().Resolve(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	explainer, err := provider.NewRegistry().Resolve(cfg.AI, provider.PolicyFor(cfg.AI))
	if err != nil {
		return nil, fmt.Errorf("init provider: %w", err)
	}

	cat, err := catalog.New()
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	log.Info().Int("codes", cat.Len()).Msg("✅ Status code catalog loaded")

	svc := explain.NewService(explainer,
		explain.WithCache(explanationCache),
		explain.WithKeyPrefix(cfg.Cache.KeyPrefix),
		explain.WithTTL(cfg.Cache.TTL),
	)

	srv := &Server{
		Handler:  api.NewRouter(handlers.New(cfg, svc, cat)),
		Explain:  svc,
		Catalog:  cat,
		Config:   cfg,
		shutdown: shutdown,
	}
	if c, ok := explanationCache.(io.Closer); ok {
		srv.closers = append(srv.closers, c)
	}
	return srv, nil
}

// Close releases the cache connection and flushes telemetry.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.shutdown != nil {
		if err := s.shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
