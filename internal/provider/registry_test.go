package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusteacher/statusteacher/internal/config"
	"github.com/statusteacher/statusteacher/internal/provider"
	"github.com/statusteacher/statusteacher/internal/retry"
	"github.com/statusteacher/statusteacher/pkg/contracts"
	"github.com/statusteacher/statusteacher/pkg/models"
)

func TestRegistry_Resolve(t *testing.T) {
	r := provider.NewRegistry()
	assert.Equal(t, []string{"claude", "gemini"}, r.Names())

	e, err := r.Resolve(config.AIConfig{Provider: " Claude "}, retry.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "claude", e.Name())
	_, ok := e.(*provider.Claude)
	assert.True(t, ok)

	e, err = r.Resolve(config.AIConfig{Provider: "gemini", RateLimitRPS: 5}, retry.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "gemini", e.Name())
	_, ok = e.(*provider.RateLimited)
	assert.True(t, ok)
}

func TestRegistry_UnknownProvider(t *testing.T) {
	_, err := provider.NewRegistry().Resolve(config.AIConfig{Provider: "openai"}, retry.DefaultPolicy())

	var unsupported *config.UnsupportedValueError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "AI_PROVIDER", unsupported.Key)
	assert.Equal(t, "openai", unsupported.Value)
}

func TestPolicyFor(t *testing.T) {
	p := provider.PolicyFor(config.AIConfig{MaxAttempts: 5, BaseDelay: 10 * time.Millisecond})
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, p.BaseDelay)

	p = provider.PolicyFor(config.AIConfig{})
	assert.Equal(t, retry.DefaultMaxAttempts, p.MaxAttempts)
}

type countingExplainer struct{ calls int }

func (c *countingExplainer) Name() string { return "counting" }

func (c *countingExplainer) Explain(_ context.Context, code int) models.StatusCodeExplanation {
	c.calls++
	return models.StatusCodeExplanation{Code: code, Name: "ok", Description: "ok"}
}

var _ contracts.Explainer = (*countingExplainer)(nil)

func TestRateLimited_CanceledWaitFallsBack(t *testing.T) {
	next := &countingExplainer{}
	limited := provider.NewRateLimited(next, 0.001, 1)

	// The first call takes the only token.
	assert.False(t, limited.Explain(context.Background(), 200).IsFallback())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	expl := limited.Explain(ctx, 201)

	assert.True(t, expl.IsFallback())
	assert.Equal(t, 201, expl.Code)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, "counting", limited.Name())
}
