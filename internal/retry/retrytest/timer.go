// Package retrytest provides a backoff timer for tests that fires at once
// and records every requested delay.
package retrytest

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Timer is an instant backoff.Timer.
type Timer struct {
	mu     sync.Mutex
	delays []time.Duration
	c      chan time.Time
}

// NewTimer returns an empty recording timer.
func NewTimer() *Timer {
	return &Timer{c: make(chan time.Time, 1)}
}

// Factory returns a constructor suitable for retry.Policy.NewTimer that
// always hands out t.
func (t *Timer) Factory() func() backoff.Timer {
	return func() backoff.Timer { return t }
}

func (t *Timer) Start(d time.Duration) {
	t.mu.Lock()
	t.delays = append(t.delays, d)
	t.mu.Unlock()
	select {
	case t.c <- time.Now():
	default:
	}
}

func (t *Timer) Stop() {}

func (t *Timer) C() <-chan time.Time { return t.c }

// Delays returns a copy of the recorded waits in order.
func (t *Timer) Delays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]time.Duration(nil), t.delays...)
}
