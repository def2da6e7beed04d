package provider

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/statusteacher/statusteacher/pkg/contracts"
	"github.com/statusteacher/statusteacher/pkg/models"
)

// RateLimited caps the rate of outbound provider calls. A caller whose
// context ends while waiting for a token gets the fallback explanation.
type RateLimited struct {
	next    contracts.Explainer
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a token bucket of rps tokens per second.
// Burst is at least 1.
func NewRateLimited(next contracts.Explainer, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *RateLimited) Name() string { return r.next.Name() }

func (r *RateLimited) Explain(ctx context.Context, code int) models.StatusCodeExplanation {
	if err := r.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Int("code", code).Str("provider", r.next.Name()).Msg("Rate limit wait aborted")
		return models.FallbackExplanation(code)
	}
	return r.next.Explain(ctx, code)
}
