package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/statusteacher/statusteacher/internal/config"
	"github.com/statusteacher/statusteacher/pkg/contracts"
)

// Factory builds a cache backend from configuration.
type Factory func(ctx context.Context, cfg config.CacheConfig) (contracts.ExplanationCache, error)

// Registry maps CACHE_TYPE selector values to backend factories. Thread-safe.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in backends registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register(config.CacheNone, func(context.Context, config.CacheConfig) (contracts.ExplanationCache, error) {
		return NewNoop(), nil
	})
	memory := func(_ context.Context, cfg config.CacheConfig) (contracts.ExplanationCache, error) {
		return NewMemory(cfg.MaxEntries)
	}
	r.Register(config.CacheMemory, memory)
	r.Register(config.CacheInMemory, memory)
	r.Register(config.CacheRedis, func(ctx context.Context, cfg config.CacheConfig) (contracts.ExplanationCache, error) {
		return NewRedis(ctx, cfg.Connection)
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

// Resolve builds the backend selected by cfg.Type. An unknown selector
// returns *config.UnsupportedValueError.
func (r *Registry) Resolve(ctx context.Context, cfg config.CacheConfig) (contracts.ExplanationCache, error) {
	name := config.Normalize(cfg.Type)

	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &config.UnsupportedValueError{Key: "CACHE_TYPE", Value: name, Allowed: r.Names()}
	}

	c, err := f(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("type", name).Str("kind", c.Kind()).Msg("Explanation cache selected")
	return c, nil
}
