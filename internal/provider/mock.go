package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pageza/fridgechef/backend/internal/extract"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// mockChatRecipes caps how many recipes a canned chat reply embeds
const mockChatRecipes = 2

// Mock serves fixed demo data. It needs no credentials and never fails.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Name() string { return NameMock }

func (m *Mock) IdentifyIngredients(ctx context.Context, img types.Image) ([]types.Ingredient, error) {
	return DemoIngredients(), nil
}

func (m *Mock) GenerateRecipes(ctx context.Context, ingredients []string, cuisines []string) ([]types.Recipe, error) {
	return CatalogRecipes(ingredients, cuisines), nil
}

func (m *Mock) Chat(ctx context.Context, transcript []types.ChatMessage, ingredients []string) (ChatReply, error) {
	return cannedChat(transcript, ingredients)
}

func lastUserMessage(transcript []types.ChatMessage) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role.Normalize() == types.RoleUser {
			return transcript[i].Content
		}
	}
	return ""
}

type scoredEntry struct {
	entry   catalogEntry
	concern int
	used    int
}

// pickForConcern ranks catalog recipes by how well they fit the message and
// how many of the available ingredients they use
func pickForConcern(message string, ingredients []string, limit int) []types.Recipe {
	message = strings.ToLower(message)
	scored := make([]scoredEntry, 0, len(catalog))
	for _, entry := range catalog {
		s := scoredEntry{entry: entry}
		for _, kw := range entry.goodFor {
			if strings.Contains(message, kw) {
				s.concern++
			}
		}
		for _, req := range entry.requires {
			if hasIngredient(ingredients, req) {
				s.used++
			}
		}
		scored = append(scored, s)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].concern != scored[j].concern {
			return scored[i].concern > scored[j].concern
		}
		return scored[i].used > scored[j].used
	})

	if limit > len(scored) {
		limit = len(scored)
	}
	recipes := make([]types.Recipe, 0, limit)
	for _, s := range scored[:limit] {
		recipes = append(recipes, s.entry.forIngredients(ingredients))
	}
	return recipes
}

func cannedChat(transcript []types.ChatMessage, ingredients []string) (ChatReply, error) {
	recipes := pickForConcern(lastUserMessage(transcript), ingredients, mockChatRecipes)

	var sb strings.Builder
	sb.WriteString("Thanks for sharing. Here are some ideas that use what you already have.\n\n")
	for _, r := range recipes {
		body, err := json.Marshal(r)
		if err != nil {
			return ChatReply{}, fmt.Errorf("failed to encode recipe: %w", err)
		}
		fmt.Fprintf(&sb, "**%s**: %s\n\n%s\n%s\n%s\n\n", r.Name, r.HealthBenefits, extract.RecipeStart, body, extract.RecipeEnd)
	}
	sb.WriteString("This is general nutritional information and not medical advice. Please consult a healthcare professional for persistent symptoms.")

	return ChatReply{Text: sb.String(), Recipes: recipes}, nil
}
