package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("should count provider calls by status", func(t *testing.T) {
		m := New()
		m.RecordProviderCall("mock", "chat", "ok", 10*time.Millisecond)
		m.RecordProviderCall("mock", "chat", "ok", 10*time.Millisecond)
		m.RecordProviderCall("mock", "chat", "upstream", time.Second)

		assert.Equal(t, 2.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("mock", "chat", "ok")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.providerCalls.WithLabelValues("mock", "chat", "upstream")))
	})

	t.Run("should ignore non-positive drop counts", func(t *testing.T) {
		m := New()
		m.RecipesDropped(0)
		m.RecipesDropped(3)
		assert.Equal(t, 3.0, testutil.ToFloat64(m.droppedRecipes))
	})

	t.Run("should serve the exposition format", func(t *testing.T) {
		m := New()
		m.RecordRequest("GET", "/api/health", 200, time.Millisecond)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

		body, err := io.ReadAll(rec.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `http_requests_total{method="GET",path="/api/health",status="200"} 1`)
	})

	t.Run("should allow independent instances", func(t *testing.T) {
		assert.NotPanics(t, func() {
			New()
			New()
		})
	})
}
