package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/middleware"
)

// startRedis runs a throwaway Redis container for the test
func startRedis(t *testing.T) *config.Config {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("6379/tcp"),
				wait.ForLog("Ready to accept connections"),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return &config.Config{RedisHost: host, RedisPort: port.Port()}
}

func TestNewRedisClient(t *testing.T) {
	t.Run("should return nil when Redis is not configured", func(t *testing.T) {
		client, err := NewRedisClient(context.Background(), &config.Config{}, zap.NewNop())
		assert.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("should reject a malformed URL", func(t *testing.T) {
		_, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "ftp://nowhere"}, zap.NewNop())
		assert.ErrorContains(t, err, "failed to parse Redis URL")
	})

	t.Run("should share counters across limiters", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping container test in short mode")
		}
		cfg := startRedis(t)
		ctx := context.Background()

		client, err := NewRedisClient(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer client.Close()

		limits := middleware.RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test"}
		first := middleware.NewRateLimiter(client, limits, nil, nil)
		second := middleware.NewRateLimiter(client, limits, nil, nil)

		allowed, remaining, _, err := first.IsAllowed(ctx, "10.0.0.9")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, remaining)

		allowed, _, _, err = second.IsAllowed(ctx, "10.0.0.9")
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, remaining, reset, err := first.IsAllowed(ctx, "10.0.0.9")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.True(t, reset.After(time.Now()))
	})
}
