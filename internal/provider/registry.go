package provider

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/statusteacher/statusteacher/internal/config"
	"github.com/statusteacher/statusteacher/internal/retry"
	"github.com/statusteacher/statusteacher/pkg/contracts"
)

// Factory builds an explainer from configuration.
type Factory func(cfg config.AIConfig, policy retry.Policy) contracts.Explainer

// Registry maps AI_PROVIDER selector values to adapter factories. Thread-safe.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with Gemini and Claude registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(config.ProviderGemini, func(cfg config.AIConfig, policy retry.Policy) contracts.Explainer {
		return NewGemini(GeminiOptions{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			Endpoint: cfg.GeminiEndpoint,
			Timeout:  cfg.RequestTimeout,
			Retry:    policy,
		})
	})
	r.Register(config.ProviderClaude, func(cfg config.AIConfig, policy retry.Policy) contracts.Explainer {
		return NewClaude(ClaudeOptions{
			APIKey:    cfg.ClaudeAPIKey,
			Model:     cfg.ClaudeModel,
			BaseURL:   cfg.ClaudeBaseURL,
			MaxTokens: cfg.ClaudeMaxTokens,
			Timeout:   cfg.RequestTimeout,
			Retry:     policy,
		})
	})
	return r
}

// Register adds a factory under name. Overwrites if exists.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	r.factories[config.Normalize(name)] = f
	r.mu.Unlock()
}

// Names returns the registered selector values, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PolicyFor derives the retry policy from AI settings.
func PolicyFor(cfg config.AIConfig) retry.Policy {
	p := retry.DefaultPolicy()
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelay > 0 {
		p.BaseDelay = cfg.BaseDelay
	}
	return p
}

// Resolve builds the adapter selected by cfg.Provider, wrapped in a rate
// limiter when cfg.RateLimitRPS > 0. An unknown selector returns
// *config.UnsupportedValueError.
func (r *Registry) Resolve(cfg config.AIConfig, policy retry.Policy) (contracts.Explainer, error) {
	name := config.Normalize(cfg.Provider)

	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &config.UnsupportedValueError{Key: "AI_PROVIDER", Value: name, Allowed: r.Names()}
	}

	var e contracts.Explainer = f(cfg, policy)
	if cfg.RateLimitRPS > 0 {
		e = NewRateLimited(e, cfg.RateLimitRPS, 1)
	}
	log.Info().Str("provider", e.Name()).Int("max_attempts", policy.MaxAttempts).Msg("AI provider selected")
	return e, nil
}
