// Package explain is the entry point shared by the REST API, the A2A handler
// and the CLI: it validates the requested code, consults the cache and
// delegates to the selected AI provider.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/statusteacher/statusteacher/internal/cache"
	"github.com/statusteacher/statusteacher/pkg/contracts"
	"github.com/statusteacher/statusteacher/pkg/models"
)

// ErrInvalidStatusCode is returned for codes outside 100–599.
var ErrInvalidStatusCode = errors.New("invalid status code: must be between 100 and 599")

var tracer = otel.Tracer("status-code-teacher/explain")

// Service explains status codes with cache-aside around one provider.
// Safe for concurrent use.
type Service struct {
	provider  contracts.Explainer
	cache     contracts.ExplanationCache
	keyPrefix string
	ttl       time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the cache backend. Without it nothing is cached.
func WithCache(c contracts.ExplanationCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithKeyPrefix sets the namespace prepended to cache keys.
func WithKeyPrefix(prefix string) Option {
	return func(s *Service) { s.keyPrefix = prefix }
}

// WithTTL sets the lifetime of cached explanations.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// NewService creates a service around provider.
func NewService(provider contracts.Explainer, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		cache:     cache.NewNoop(),
		keyPrefix: "statuscode",
		ttl:       cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProviderName returns the selected provider's name.
func (s *Service) ProviderName() string { return s.provider.Name() }

// CacheKind returns the selected cache backend's name.
func (s *Service) CacheKind() string { return s.cache.Kind() }

// Explain returns the explanation for code. The only error is
// ErrInvalidStatusCode; provider failures surface as a fallback explanation.
func (s *Service) Explain(ctx context.Context, code int) (models.StatusCodeExplanation, error) {
	ctx, span := tracer.Start(ctx, "explain.Explain")
	defer span.End()
	span.SetAttributes(
		attribute.Int("http.status_code.requested", code),
		attribute.String("ai.provider", s.provider.Name()),
	)

	if !models.ValidStatusCode(code) {
		return models.StatusCodeExplanation{}, fmt.Errorf("%w: got %d", ErrInvalidStatusCode, code)
	}

	key := cache.Key(s.keyPrefix, s.provider.Name(), code)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached models.StatusCodeExplanation
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && cached.Code == code {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			log.Debug().Int("code", code).Str("key", key).Msg("Explanation served from cache")
			return cached, nil
		}
		log.Warn().Str("key", key).Msg("Ignoring undecodable cache entry")
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	expl := s.provider.Explain(ctx, code)
	expl.Code = code
	span.SetAttributes(attribute.Bool("explanation.fallback", expl.IsFallback()))

	if expl.IsFallback() {
		return expl, nil
	}
	if data, err := json.Marshal(expl); err == nil {
		s.cache.Set(ctx, key, string(data), s.ttl)
	}
	return expl, nil
}

// CategoryFor returns the category label of code, or "Unknown" outside 100–599.
func CategoryFor(code int) string {
	return models.CategoryFor(code)
}
