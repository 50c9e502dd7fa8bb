package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fridgechef/backend/internal/metrics"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.POST("/api/generate-recipes", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func post(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-recipes", nil)
	req.RemoteAddr = ip + ":40000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Local(t *testing.T) {
	m := metrics.New()
	rl := NewRateLimiter(nil, RateLimitConfig{Window: time.Hour, Limit: 2}, nil, m)
	router := limitedRouter(rl)

	first := post(router, "10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1").Code)

	blocked := post(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Equal(t, "Rate limit exceeded", decodeBody(t, blocked)["error"])

	t.Run("should track clients separately", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post(router, "10.0.0.2").Code)
	})

	t.Run("should count rejections", func(t *testing.T) {
		count, err := testutil.GatherAndCount(m.Registry(), "rate_limited_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestRateLimiter_RedisFailureFallsBack(t *testing.T) {
	// Nothing listens on this port, so every Redis call fails
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 1}, nil, nil)
	router := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, post(router, "10.0.0.3").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(router, "10.0.0.3").Code)
}
