package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/internal/extract"
	"github.com/pageza/fridgechef/backend/internal/metrics"
	"github.com/pageza/fridgechef/backend/internal/provider"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// KitchenService turns API requests into provider calls. It owns input
// normalization, logging and metrics; the adapter owns prompting.
type KitchenService struct {
	adapter provider.Adapter
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewKitchenService creates a new KitchenService. metrics may be nil.
func NewKitchenService(adapter provider.Adapter, logger *zap.Logger, m *metrics.Metrics) *KitchenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KitchenService{adapter: adapter, logger: logger, metrics: m}
}

// Backend names the provider in use
func (s *KitchenService) Backend() string { return s.adapter.Name() }

func errorStatus(err error) string {
	if err == nil {
		return "ok"
	}
	var perr *provider.Error
	if errors.As(err, &perr) {
		return string(perr.Kind)
	}
	var eerr *extract.Error
	if errors.As(err, &eerr) {
		return string(eerr.Kind)
	}
	return "error"
}

func (s *KitchenService) observe(ctx context.Context, op string, start time.Time, err error, fields ...zap.Field) {
	elapsed := time.Since(start)
	status := errorStatus(err)
	if s.metrics != nil {
		s.metrics.RecordProviderCall(s.adapter.Name(), op, status, elapsed)
	}

	fields = append(fields,
		zap.String("provider", s.adapter.Name()),
		zap.String("operation", op),
		zap.Duration("latency", elapsed),
	)
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	if err != nil {
		var perr *provider.Error
		if errors.As(err, &perr) && perr.Raw != "" {
			fields = append(fields, zap.String("raw_response", perr.Raw))
		}
		s.logger.Error("Provider call failed", append(fields, zap.String("status", status), zap.Error(err))...)
		return
	}
	s.logger.Info("Provider call completed", fields...)
}

// IdentifyIngredients decodes the uploaded image and asks the backend what is in it
func (s *KitchenService) IdentifyIngredients(ctx context.Context, imageData, imageType string) ([]types.Ingredient, error) {
	img, err := DecodeImage(imageData, imageType)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ingredients, err := s.adapter.IdentifyIngredients(ctx, img)
	s.observe(ctx, provider.OpIdentify, start, err,
		zap.String("media_type", img.MediaType),
		zap.Int("image_bytes", len(img.Data)),
		zap.Int("ingredients", len(ingredients)),
	)
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []types.Ingredient{}
	}
	return ingredients, nil
}

// GenerateRecipes asks the backend for recipes using the given ingredients
func (s *KitchenService) GenerateRecipes(ctx context.Context, ingredients []string, cuisines []string) ([]types.Recipe, error) {
	start := time.Now()
	recipes, err := s.adapter.GenerateRecipes(ctx, ingredients, cuisines)
	s.observe(ctx, provider.OpRecipes, start, err,
		zap.Int("ingredients", len(ingredients)),
		zap.Strings("cuisines", cuisines),
		zap.Int("recipes", len(recipes)),
	)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}
	return recipes, nil
}

// HealthChat forwards the whole transcript; nothing is kept between calls
func (s *KitchenService) HealthChat(ctx context.Context, transcript []types.ChatMessage, ingredients []string) (provider.ChatReply, error) {
	start := time.Now()
	reply, err := s.adapter.Chat(ctx, transcript, ingredients)
	s.observe(ctx, provider.OpChat, start, err,
		zap.Int("turns", len(transcript)),
		zap.Int("recipes", len(reply.Recipes)),
		zap.Int("dropped", reply.Dropped),
	)
	if err != nil {
		return provider.ChatReply{}, err
	}

	if reply.Dropped > 0 {
		s.logger.Warn("Dropped unparsable embedded recipes", zap.Int("count", reply.Dropped))
		if s.metrics != nil {
			s.metrics.RecipesDropped(reply.Dropped)
		}
	}
	if reply.Recipes == nil {
		reply.Recipes = []types.Recipe{}
	}
	return reply, nil
}

type contextKey string

// RequestIDKey carries the request ID from the HTTP layer into service logs
const RequestIDKey contextKey = "request_id"
