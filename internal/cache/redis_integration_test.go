package cache_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/statusteacher/statusteacher/internal/cache"
)

var (
	testRedisAddr      string
	testRedisContainer testcontainers.Container
	skipIntegration    bool
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	flag.Parse()

	if testing.Short() || os.Getenv("SKIP_INTEGRATION") != "" {
		skipIntegration = true
		os.Exit(m.Run())
	}

	var containerErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				containerErr = fmt.Errorf("docker not available: %v", r)
			}
		}()
		testRedisContainer, containerErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections"),
			},
			Started: true,
		})
	}()

	if containerErr != nil {
		fmt.Printf("Docker not available, Redis integration tests will be skipped: %v\n", containerErr)
		skipIntegration = true
	} else {
		host, hostErr := testRedisContainer.Host(ctx)
		port, portErr := testRedisContainer.MappedPort(ctx, "6379")
		if hostErr != nil || portErr != nil {
			fmt.Printf("Failed to resolve Redis container address: %v %v\n", hostErr, portErr)
			skipIntegration = true
		} else {
			testRedisAddr = host + ":" + port.Port()
		}
	}

	code := m.Run()

	if testRedisContainer != nil {
		_ = testRedisContainer.Terminate(ctx)
	}
	os.Exit(code)
}

// getRedis returns a cache bound to the container, with the database flushed.
func getRedis(t *testing.T) *cache.Redis {
	t.Helper()
	if skipIntegration {
		t.Skip("Docker not available, skipping Redis integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	require.NoError(t, client.FlushDB(context.Background()).Err())
	c := cache.NewRedisFromClient(client)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedis_RoundTrip(t *testing.T) {
	c := getRedis(t)
	ctx := context.Background()

	c.Set(ctx, "statuscode:claude:418", `{"code":418}`, time.Minute)

	got, ok := c.Get(ctx, "statuscode:claude:418")
	require.True(t, ok)
	assert.Equal(t, `{"code":418}`, got)

	_, ok = c.Get(ctx, "statuscode:claude:419")
	assert.False(t, ok)
}

func TestRedis_TTLIsApplied(t *testing.T) {
	c := getRedis(t)
	ctx := context.Background()

	c.Set(ctx, "ttl", "v", 0)

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	defer client.Close()
	ttl, err := client.TTL(ctx, "ttl").Result()
	require.NoError(t, err)
	assert.InDelta(t, cache.DefaultTTL.Seconds(), ttl.Seconds(), 5)
}
