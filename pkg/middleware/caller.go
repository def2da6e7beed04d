// Package middleware provides request-context helpers shared by the HTTP
// middleware and handlers.
package middleware

import (
	"context"
	"sync"
)

type contextKey string

const (
	callerKey     contextKey = "caller"
	callerSlotKey contextKey = "caller_slot"
)

// Anonymous is the caller name used when API key auth is disabled or the
// path is public.
const Anonymous = "anonymous"

// CallerSlot receives the caller name set further down the middleware
// chain, so outer middleware (request logging) can report it.
type CallerSlot struct {
	mu   sync.Mutex
	name string
}

// Name returns the recorded caller, or Anonymous.
func (s *CallerSlot) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.name == "" {
		return Anonymous
	}
	return s.name
}

// TrackCaller attaches an empty CallerSlot to ctx.
func TrackCaller(ctx context.Context) (context.Context, *CallerSlot) {
	slot := &CallerSlot{}
	return context.WithValue(ctx, callerSlotKey, slot), slot
}

// SetCaller stores the authenticated caller name in the context and in the
// CallerSlot attached by TrackCaller, if any.
func SetCaller(ctx context.Context, caller string) context.Context {
	if slot, ok := ctx.Value(callerSlotKey).(*CallerSlot); ok {
		slot.mu.Lock()
		slot.name = caller
		slot.mu.Unlock()
	}
	return context.WithValue(ctx, callerKey, caller)
}

// GetCaller returns the caller name, or Anonymous when none is set.
func GetCaller(ctx context.Context) string {
	if v, ok := ctx.Value(callerKey).(string); ok && v != "" {
		return v
	}
	return Anonymous
}
