package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/statusteacher/statusteacher/internal/config"
)

// DefaultMaxEntries bounds the in-process cache when no size is configured.
const DefaultMaxEntries = 1024

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process LRU cache with per-entry expiry. Expired entries
// are evicted lazily on read; capacity pressure evicts the least recently
// used entry. Safe for concurrent use.
type Memory struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
	// mu orders writes against expiry removal so a refresh is never evicted.
	mu sync.Mutex
}

// MemoryOption configures the in-process cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an in-process cache holding at most maxEntries values.
func NewMemory(maxEntries int, opts ...MemoryOption) (*Memory, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, err
	}
	m := &Memory{entries: entries, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Memory) Kind() string { return config.CacheMemory }

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	e, ok := m.entries.Get(key)
	if !ok {
		return "", false
	}
	if !m.now().Before(e.expiresAt) {
		m.removeExpired(key, e)
		return "", false
	}
	return e.value, true
}

// removeExpired drops key only if it still holds the expired entry.
func (m *Memory) removeExpired(key string, expired memoryEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.entries.Peek(key); ok && cur == expired {
		m.entries.Remove(key)
		log.Debug().Str("key", key).Msg("Cache entry expired")
	}
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) {
	e := memoryEntry{value: value, expiresAt: m.now().Add(effectiveTTL(ttl))}
	m.mu.Lock()
	m.entries.Add(key, e)
	m.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int { return m.entries.Len() }
