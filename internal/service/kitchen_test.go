package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pageza/fridgechef/backend/internal/metrics"
	"github.com/pageza/fridgechef/backend/internal/provider"
	"github.com/pageza/fridgechef/backend/internal/types"
)

type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) IdentifyIngredients(ctx context.Context, img types.Image) ([]types.Ingredient, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Ingredient), args.Error(1)
}

func (m *MockAdapter) GenerateRecipes(ctx context.Context, ingredients []string, cuisines []string) ([]types.Recipe, error) {
	args := m.Called(ctx, ingredients, cuisines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

func (m *MockAdapter) Chat(ctx context.Context, transcript []types.ChatMessage, ingredients []string) (provider.ChatReply, error) {
	args := m.Called(ctx, transcript, ingredients)
	return args.Get(0).(provider.ChatReply), args.Error(1)
}

func (m *MockAdapter) Name() string { return "fake" }

func TestDecodeImage(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		imageType string
		wantType  string
		wantLen   int
		wantErr   bool
	}{
		{name: "data url overrides image type", data: "data:image/png;base64,AAAA", imageType: "image/webp", wantType: "image/png", wantLen: 3},
		{name: "line-wrapped data url keeps its type", data: "data:image/png;base64,AAAA\r\nAAAA\n", imageType: "image/webp", wantType: "image/png", wantLen: 6},
		{name: "data url with a compound subtype", data: "data:image/svg+xml;base64,AAAA", wantType: "image/svg+xml", wantLen: 3},
		{name: "raw base64 keeps image type", data: "AAAA", imageType: "image/webp", wantType: "image/webp", wantLen: 3},
		{name: "raw base64 defaults to jpeg", data: "AAAA", wantType: "image/jpeg", wantLen: 3},
		{name: "unpadded base64", data: "AAE", wantType: "image/jpeg", wantLen: 2},
		{name: "invalid base64", data: "%%%not-base64%%%", wantErr: true},
		{name: "empty payload", data: "data:image/png;base64,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage(tt.data, tt.imageType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, img.MediaType)
			assert.Len(t, img.Data, tt.wantLen)
		})
	}
}

func TestKitchenService_IdentifyIngredients(t *testing.T) {
	t.Run("should decode the image before calling the adapter", func(t *testing.T) {
		adapter := new(MockAdapter)
		want := []types.Ingredient{types.NewIngredient("Eggs")}
		adapter.On("IdentifyIngredients", mock.Anything, types.Image{Data: []byte{0, 0, 0}, MediaType: "image/png"}).Return(want, nil)

		svc := NewKitchenService(adapter, zap.NewNop(), nil)
		got, err := svc.IdentifyIngredients(context.Background(), "data:image/png;base64,AAAA", "")

		require.NoError(t, err)
		assert.Equal(t, want, got)
		adapter.AssertExpectations(t)
	})

	t.Run("should not call the adapter for invalid images", func(t *testing.T) {
		adapter := new(MockAdapter)
		svc := NewKitchenService(adapter, zap.NewNop(), nil)

		_, err := svc.IdentifyIngredients(context.Background(), "***", "")

		assert.ErrorIs(t, err, ErrInvalidImage)
		adapter.AssertNotCalled(t, "IdentifyIngredients", mock.Anything, mock.Anything)
	})

	t.Run("should log and count provider failures", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		m := metrics.New()
		adapter := new(MockAdapter)
		adapter.On("IdentifyIngredients", mock.Anything, mock.Anything).Return(nil, &provider.Error{
			Kind: provider.UnparsableResponse, Backend: "fake", Op: provider.OpIdentify, Raw: "no food",
		})

		svc := NewKitchenService(adapter, zap.New(core), m)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
		_, err := svc.IdentifyIngredients(ctx, "AAAA", "")

		assert.True(t, provider.IsKind(err, provider.UnparsableResponse))
		entries := logs.FilterMessage("Provider call failed").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "no food", fields["raw_response"])
		assert.Equal(t, "req-1", fields["request_id"])

		count, err := testutil.GatherAndCount(m.Registry(), "ai_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestKitchenService_GenerateRecipes(t *testing.T) {
	t.Run("should return an empty slice rather than nil", func(t *testing.T) {
		adapter := new(MockAdapter)
		adapter.On("GenerateRecipes", mock.Anything, []string{"Eggs"}, []string(nil)).Return(nil, nil)

		svc := NewKitchenService(adapter, nil, nil)
		recipes, err := svc.GenerateRecipes(context.Background(), []string{"Eggs"}, nil)

		require.NoError(t, err)
		assert.NotNil(t, recipes)
		assert.Empty(t, recipes)
	})

	t.Run("should pass upstream errors through", func(t *testing.T) {
		adapter := new(MockAdapter)
		upstream := &provider.Error{Kind: provider.Upstream, Backend: "fake", Op: provider.OpRecipes, Err: errors.New("timeout")}
		adapter.On("GenerateRecipes", mock.Anything, mock.Anything, mock.Anything).Return(nil, upstream)

		svc := NewKitchenService(adapter, nil, nil)
		_, err := svc.GenerateRecipes(context.Background(), []string{"Eggs"}, []string{"Thai"})

		assert.ErrorIs(t, err, upstream)
	})
}

func TestKitchenService_HealthChat(t *testing.T) {
	m := metrics.New()
	adapter := new(MockAdapter)
	transcript := []types.ChatMessage{{Role: types.RoleUser, Content: "tired"}}
	adapter.On("Chat", mock.Anything, transcript, []string{"Eggs"}).Return(provider.ChatReply{Text: "rest", Dropped: 2}, nil)

	svc := NewKitchenService(adapter, zap.NewNop(), m)
	reply, err := svc.HealthChat(context.Background(), transcript, []string{"Eggs"})

	require.NoError(t, err)
	assert.Equal(t, "rest", reply.Text)
	assert.NotNil(t, reply.Recipes)
	assert.Equal(t, "fake", svc.Backend())
}
