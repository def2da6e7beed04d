// Package retry runs provider calls under a bounded exponential backoff.
//
// A Policy is a fixed attempt budget, a base delay and a multiplier, with no
// jitter. Operations mark non-retryable failures with Permanent. Waits go
// through a backoff.Timer, which tests replace with retrytest.Timer.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Default policy values.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1000 * time.Millisecond
	DefaultMultiplier  = 2.0
	DefaultMaxDelay    = 30 * time.Second
)

// Policy describes how many times an operation is attempted and how long to
// wait between attempts. The zero value is not useful; start from
// DefaultPolicy.
type Policy struct {
	// MaxAttempts includes the first attempt. Values below 1 mean 1.
	MaxAttempts int
	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration
	// Multiplier scales the delay after each failed attempt.
	Multiplier float64
	// MaxDelay caps a single wait.
	MaxDelay time.Duration
	// NewTimer supplies the timer used for waits. Nil uses a real timer.
	NewTimer func() backoff.Timer
}

// DefaultPolicy returns 3 attempts with 1s, 2s waits.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Multiplier:  DefaultMultiplier,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Permanent wraps err so Do stops retrying and returns err unchanged.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Operation is one attempt. attempt starts at 1.
type Operation func(ctx context.Context, attempt int) error

// Do runs op until it succeeds, returns a Permanent error, the attempt budget
// is spent or ctx is done. It returns nil on success and otherwise the last
// error observed.
func (p Policy) Do(ctx context.Context, op Operation) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	attempt := 0
	err := backoff.RetryNotifyWithTimer(
		func() error {
			attempt++
			return op(ctx, attempt)
		},
		backoff.WithContext(backoff.WithMaxRetries(p.backOff(), uint64(attempts-1)), ctx),
		func(err error, next time.Duration) {
			log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Dur("backoff", next).
				Msg("Retrying after transient failure")
		},
		p.timer(),
	)
	if err != nil {
		return fmt.Errorf("attempt %d/%d: %w", attempt, attempts, err)
	}
	return nil
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = DefaultMultiplier
	}
	maxDelay := p.MaxDelay
	if maxDelay < base {
		maxDelay = DefaultMaxDelay
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     base,
		RandomizationFactor: 0,
		Multiplier:          mult,
		MaxInterval:         maxDelay,
		// The attempt budget bounds the loop, not wall-clock time.
		MaxElapsedTime: 0,
		Stop:           backoff.Stop,
		Clock:          backoff.SystemClock,
	}
	b.Reset()
	return b
}

func (p Policy) timer() backoff.Timer {
	if p.NewTimer == nil {
		return nil
	}
	return p.NewTimer()
}
