package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// Provider and cache selector values.
const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"

	CacheRedis    = "redis"
	CacheMemory   = "memory"
	CacheInMemory = "inmemory"
	CacheNone     = "none"
)

// Config holds all configuration for the status code teacher. It is built
// once by Load and passed by pointer to every component; nothing mutates it
// after Load returns.
type Config struct {
	Port      int
	Version   string
	LogLevel  string
	LogFormat string
	APIKeys   []string
	AI        AIConfig
	Cache     CacheConfig
	Agent     AgentConfig
	Telemetry TelemetryConfig
}

type AIConfig struct {
	// Provider is the normalized selector: "gemini" or "claude".
	Provider string

	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string

	ClaudeAPIKey    string
	ClaudeModel     string
	ClaudeBaseURL   string
	ClaudeMaxTokens int

	MaxAttempts    int
	BaseDelay      time.Duration
	RequestTimeout time.Duration
	RateLimitRPS   float64
}

type CacheConfig struct {
	// Type is the normalized selector: "redis", "memory", "inmemory" or "none".
	Type       string
	Connection string
	TTL        time.Duration
	MaxEntries int
	KeyPrefix  string
}

type AgentConfig struct {
	ID          string
	Name        string
	Description string
	URL         string
	ProviderOrg string
	ProviderURL string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// AllowedProviders lists the accepted AI_PROVIDER values.
var AllowedProviders = []string{ProviderGemini, ProviderClaude}

// AllowedCacheTypes lists the accepted CACHE_TYPE values.
var AllowedCacheTypes = []string{CacheRedis, CacheMemory, CacheInMemory, CacheNone}

// Load reads configuration from environment variables (and a .env file in
// the working directory when present) and validates the selector values.
// An unsupported AI_PROVIDER or CACHE_TYPE yields *UnsupportedValueError.
func Load() (*Config, error) {
	// A missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      envInt("PORT", 8080),
		Version:   envStr("APP_VERSION", "1.0.0"),
		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "console"),
		APIKeys:   envList("API_KEYS"),
		AI: AIConfig{
			Provider:        Normalize(envStr("AI_PROVIDER", ProviderGemini)),
			GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
			GeminiModel:     envStr("GEMINI_MODEL", "gemini-2.0-flash"),
			GeminiEndpoint:  envStr("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/"),
			ClaudeAPIKey:    envStr("ANTHROPIC_API_KEY", ""),
			ClaudeModel:     envStr("CLAUDE_MODEL", "claude-sonnet-4-5"),
			ClaudeBaseURL:   envStr("CLAUDE_BASE_URL", ""),
			ClaudeMaxTokens: envInt("CLAUDE_MAX_TOKENS", 2048),
			MaxAttempts:     envInt("AI_MAX_ATTEMPTS", 3),
			BaseDelay:       envDuration("AI_BASE_DELAY", time.Second),
			RequestTimeout:  envDuration("AI_REQUEST_TIMEOUT", 30*time.Second),
			RateLimitRPS:    envFloat("AI_RATE_LIMIT_RPS", 0),
		},
		Cache: CacheConfig{
			Type:       Normalize(envStr("CACHE_TYPE", CacheMemory)),
			Connection: envStr("CACHE_CONNECTION", "localhost:6379"),
			TTL:        envDuration("CACHE_TTL", time.Hour),
			MaxEntries: envInt("CACHE_MAX_ENTRIES", 1024),
			KeyPrefix:  envStr("CACHE_KEY_PREFIX", "statuscode"),
		},
		Agent: AgentConfig{
			ID:          envStr("AGENT_ID", "status-code-teacher"),
			Name:        envStr("AGENT_NAME", "HTTP Status Code Teacher"),
			Description: envStr("AGENT_DESCRIPTION", "Explains HTTP status codes: what they mean, when to use them and how to handle them."),
			URL:         envStr("AGENT_URL", ""),
			ProviderOrg: envStr("AGENT_PROVIDER_ORG", "Status Code Teacher"),
			ProviderURL: envStr("AGENT_PROVIDER_URL", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "status-code-teacher"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if !lo.Contains(AllowedProviders, c.AI.Provider) {
		return &UnsupportedValueError{Key: "AI_PROVIDER", Value: c.AI.Provider, Allowed: AllowedProviders}
	}
	if !lo.Contains(AllowedCacheTypes, c.Cache.Type) {
		return &UnsupportedValueError{Key: "CACHE_TYPE", Value: c.Cache.Type, Allowed: AllowedCacheTypes}
	}
	return nil
}

// Normalize lower-cases and trims a selector value.
func Normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
