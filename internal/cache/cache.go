// Package cache provides the ExplanationCache backends: a no-op cache, a
// bounded in-process LRU with per-entry TTL and a Redis-backed distributed
// cache. The backend is chosen once at startup through the Registry.
package cache

import (
	"strconv"
	"strings"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = time.Hour

// Key builds the deterministic cache key for a provider's explanation of code,
// e.g. "statuscode:gemini:404".
func Key(prefix, provider string, code int) string {
	parts := make([]string, 0, 3)
	if prefix != "" {
		parts = append(parts, prefix)
	}
	if provider != "" {
		parts = append(parts, provider)
	}
	parts = append(parts, strconv.Itoa(code))
	return strings.Join(parts, ":")
}

func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
