package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fridgechef/backend/internal/api"
	"github.com/pageza/fridgechef/backend/internal/provider"
	"github.com/pageza/fridgechef/backend/internal/router"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// startServer runs the real routes over the given backend
func startServer(t *testing.T, adapter provider.Adapter) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := api.NewKitchenHandler(service.NewKitchenService(adapter, nil, nil))
	srv := httptest.NewServer(router.SetupRouter(handler, router.Options{
		ClientURL:      "http://localhost:5173",
		BodyLimitBytes: 10 << 20,
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/")
}

func TestClient_AgainstMockBackend(t *testing.T) {
	c := startServer(t, provider.NewMock())
	ctx := context.Background()

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)

	imageData, mediaType := EncodeImage([]byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0})
	assert.Equal(t, "image/jpeg", mediaType)

	ingredients, err := c.IdentifyIngredients(ctx, imageData, mediaType)
	require.NoError(t, err)
	require.NotEmpty(t, ingredients)
	assert.Equal(t, "Eggs", ingredients[0].Name)

	recipes, err := c.GenerateRecipes(ctx, ingredients, []string{"Japanese"})
	require.NoError(t, err)
	require.NotEmpty(t, recipes)
	for _, r := range recipes {
		assert.Equal(t, "Japanese", r.Cuisine)
	}

	reply, err := c.HealthChat(ctx, []types.ChatMessage{
		{Role: types.RoleAssistant, Content: "Hi!"},
		{Role: types.RoleUser, Content: "Stress / Anxiety"},
	}, ingredients)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Response)
	assert.NotEmpty(t, reply.Recipes)
}

func TestClient_Errors(t *testing.T) {
	t.Run("should surface the server error field", func(t *testing.T) {
		c := startServer(t, provider.NewMock())

		_, err := c.HealthChat(context.Background(), nil, nil)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "Missing or invalid messages array", apiErr.Message)
		assert.True(t, IsStatus(err, http.StatusBadRequest))
	})

	t.Run("should surface an unavailable backend", func(t *testing.T) {
		c := startServer(t, &provider.Unavailable{Backend: provider.NameGemini})

		_, err := c.GenerateRecipes(context.Background(), []types.Ingredient{{Name: "Eggs"}}, nil)

		assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
		assert.EqualError(t, err, "AI backend unavailable")
	})

	t.Run("should fall back when the body has no error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := New(srv.URL).IdentifyIngredients(context.Background(), "AAAA", "")

		assert.EqualError(t, err, "Failed to identify ingredients. Please try again.")
		assert.True(t, IsStatus(err, http.StatusBadGateway))
	})

	t.Run("should fall back when the server is unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := New(url).GenerateRecipes(context.Background(), nil, nil)
		assert.EqualError(t, err, "Failed to generate recipes. Please try again.")
	})

	t.Run("should give up after the client timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := New(srv.URL, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))
		_, err := c.HealthChat(context.Background(), []types.ChatMessage{{Role: types.RoleUser, Content: "hi"}}, nil)
		assert.EqualError(t, err, "Failed to send message. Please try again.")
	})
}

func TestClient_RequestShape(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate-recipes", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"recipes":[]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).GenerateRecipes(context.Background(), []types.Ingredient{{Name: "Eggs", Category: types.CategoryProteins}}, nil)
	require.NoError(t, err)

	assert.Equal(t, []any{}, got["cuisines"])
	ingredients := got["ingredients"].([]any)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Eggs", ingredients[0].(map[string]any)["name"])
}

func TestEncodeImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	dataURL, mediaType := EncodeImage(png)
	assert.Equal(t, "image/png", mediaType)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	t.Run("should default unknown content to jpeg", func(t *testing.T) {
		_, mediaType := EncodeImage([]byte("plain text"))
		assert.Equal(t, types.DefaultImageType, mediaType)
	})
}
