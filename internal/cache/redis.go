package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/statusteacher/statusteacher/internal/config"
)

const (
	redisDialTimeout = 2 * time.Second
	redisOpTimeout   = 500 * time.Millisecond
)

// Redis stores explanations in a Redis server. Construction never fails on
// an unreachable server: the cache starts disconnected and every operation
// degrades to a miss or a dropped write until the server answers.
type Redis struct {
	client *redis.Client
}

// NewRedis builds a Redis cache from a "redis://" / "rediss://" URL or a
// plain "host:port" address and pings it once.
func NewRedis(ctx context.Context, connection string) (*Redis, error) {
	opts, err := redisOptions(connection)
	if err != nil {
		return nil, err
	}
	c := NewRedisFromClient(redis.NewClient(opts))

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := c.client.Ping(pingCtx).Err(); err != nil {
		log.Warn().
			Err(err).
			Str("addr", opts.Addr).
			Msg("Redis unreachable at startup, cache will behave as disconnected")
	} else {
		log.Info().Str("addr", opts.Addr).Msg("✅ Redis cache connected")
	}
	return c, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func redisOptions(connection string) (*redis.Options, error) {
	if strings.HasPrefix(connection, "redis://") || strings.HasPrefix(connection, "rediss://") {
		return redis.ParseURL(connection)
	}
	return &redis.Options{
		Addr:        connection,
		DialTimeout: redisDialTimeout,
		MaxRetries:  1,
	}, nil
}

func (r *Redis) Kind() string { return config.CacheRedis }

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("Redis get failed, treating as miss")
		}
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, key, value, effectiveTTL(ttl)).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Redis set failed, dropping write")
	}
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
