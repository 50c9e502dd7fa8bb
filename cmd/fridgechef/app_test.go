package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fridgechef/backend/internal/api"
	"github.com/pageza/fridgechef/backend/internal/client"
	"github.com/pageza/fridgechef/backend/internal/provider"
	"github.com/pageza/fridgechef/backend/internal/router"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/view"
)

func newTestApp(t *testing.T, script ...string) (*app, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := api.NewKitchenHandler(service.NewKitchenService(provider.NewMock(), nil, nil))
	srv := httptest.NewServer(router.SetupRouter(handler, router.Options{ClientURL: "http://localhost:5173", BodyLimitBytes: 10 << 20}))
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	a := newApp(client.New(srv.URL+"/api"), strings.NewReader(strings.Join(script, "\n")+"\n"), out, true)
	a.readFile = func(path string) ([]byte, error) {
		if path == "fridge.jpg" {
			return []byte{0xff, 0xd8, 0xff, 0xe0}, nil
		}
		return nil, errors.New("no such file")
	}
	return a, out
}

func TestApp_BrowseFlow(t *testing.T) {
	a, out := newTestApp(t,
		"",
		"photo fridge.jpg",
		"add Basil",
		"next",
		"1",
		"c Italian",
		"regen",
		"sort time",
		"1",
		"share",
		"quit",
	)

	require.NoError(t, a.run(context.Background()))

	assert.Equal(t, view.ScreenDetail, a.nav.Current())
	assert.Contains(t, a.state.IngredientNames(), "Basil")
	assert.Equal(t, []string{"Italian"}, a.state.Cuisines())
	for _, r := range a.state.Recipes() {
		assert.Equal(t, "Italian", r.Cuisine)
	}

	text := out.String()
	assert.Contains(t, text, "PROTEINS")
	assert.Contains(t, text, "Browse recipes")
	assert.Contains(t, text, "Check out this recipe:")
	assert.Contains(t, text, "Made with FridgeChef AI")
}

func TestApp_ChatFlow(t *testing.T) {
	a, out := newTestApp(t,
		"",
		"fridge.jpg",
		"next",
		"2",
		"5",
		"open 1",
		"back",
		"quit",
	)

	require.NoError(t, a.run(context.Background()))

	assert.Equal(t, view.ScreenChat, a.nav.Current())
	transcript := a.state.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, view.Greeting, transcript[0].Content)
	assert.Equal(t, "Poor sleep", transcript[1].Content)
	assert.Contains(t, transcript[2].Content, "RECIPE_START")
	assert.Len(t, a.chatRecipes, 2)

	text := out.String()
	assert.Contains(t, text, "Quick suggestions:")
	assert.Contains(t, text, "Medical Disclaimer")
	assert.NotContains(t, text, "RECIPE_START")
}

func TestApp_Gates(t *testing.T) {
	a, out := newTestApp(t,
		"",
		"next",
		"photo missing.jpg",
		"restart",
	)

	require.NoError(t, a.run(context.Background()))

	assert.Equal(t, view.ScreenLanding, a.nav.Current())
	text := out.String()
	assert.Contains(t, text, "Add a photo or at least one ingredient first.")
	assert.Contains(t, text, "Could not read missing.jpg")
}
