package cache

import (
	"context"
	"time"

	"github.com/statusteacher/statusteacher/internal/config"
)

// Noop never stores anything. Every Get is a miss.
type Noop struct{}

// NewNoop returns the disabled cache.
func NewNoop() *Noop { return &Noop{} }

func (Noop) Kind() string { return config.CacheNone }

func (Noop) Get(context.Context, string) (string, bool) { return "", false }

func (Noop) Set(context.Context, string, string, time.Duration) {}
