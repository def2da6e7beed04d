// Package contracts defines the service interfaces shared across the status
// code teacher.
//
// Concrete implementations live under internal/ (provider adapters, cache
// backends). The explain service and handlers depend only on these
// interfaces so a backend can be swapped in the wiring code (pkg/server).
package contracts

import (
	"context"
	"time"

	"github.com/statusteacher/statusteacher/pkg/models"
)

// ── AI Provider ─────────────────────────────────────────────

// Explainer turns a status code into an explanation using one AI backend.
// Implementations: internal/provider.Claude, internal/provider.Gemini.
//
// Explain never fails: every error path ends in a fallback explanation whose
// Code equals the requested code. Callers validate the range beforehand.
type Explainer interface {
	// Name returns the provider selector name (e.g. "gemini").
	Name() string

	// Explain produces an explanation for code.
	Explain(ctx context.Context, code int) models.StatusCodeExplanation
}

// ── Explanation Cache ───────────────────────────────────────

// ExplanationCache is a best-effort key/value store with TTL.
// Implementations: internal/cache.Noop, internal/cache.Memory, internal/cache.Redis.
//
// Neither method reports errors; backend failures are logged and behave as a
// miss (Get) or a dropped write (Set).
type ExplanationCache interface {
	// Kind returns the cache selector name (e.g. "redis").
	Kind() string

	// Get returns the stored value and true, or "" and false on a miss.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores value under key. A ttl <= 0 selects the default TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration)
}
