package service

import (
	"context"

	"github.com/pageza/fridgechef/backend/internal/provider"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// IKitchenService is what the HTTP handlers depend on
type IKitchenService interface {
	IdentifyIngredients(ctx context.Context, imageData, imageType string) ([]types.Ingredient, error)
	GenerateRecipes(ctx context.Context, ingredients []string, cuisines []string) ([]types.Recipe, error)
	HealthChat(ctx context.Context, transcript []types.ChatMessage, ingredients []string) (provider.ChatReply, error)
	Backend() string
}
