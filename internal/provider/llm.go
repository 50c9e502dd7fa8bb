package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pageza/fridgechef/backend/internal/extract"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// completion is a vendor-neutral request for one model reply
type completion struct {
	System    string
	Messages  []types.ChatMessage
	Image     *types.Image // attached to the first user message
	MaxTokens int
}

// completer is the only thing a vision LLM vendor has to provide
type completer interface {
	complete(ctx context.Context, req completion) (string, error)
}

// llmAdapter implements Adapter on top of any completer. Prompting and
// response extraction are shared, vendors only move text over the wire.
type llmAdapter struct {
	name    string
	model   completer
	timeout time.Duration
}

func newLLMAdapter(name string, model completer, timeout time.Duration) *llmAdapter {
	return &llmAdapter{name: name, model: model, timeout: timeout}
}

func (a *llmAdapter) Name() string { return a.name }

func (a *llmAdapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline || a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *llmAdapter) run(ctx context.Context, op string, req completion) (string, error) {
	callCtx, cancel := a.withTimeout(ctx)
	defer cancel()

	text, err := a.model.complete(callCtx, req)
	if err != nil {
		return "", upstreamError(a.name, op, err)
	}
	return text, nil
}

func (a *llmAdapter) unparsable(op, text string, err error) error {
	var extractErr *extract.Error
	if errors.As(err, &extractErr) {
		text = extractErr.Raw
	}
	return &Error{Kind: UnparsableResponse, Backend: a.name, Op: op, Raw: text, Err: err}
}

// IdentifyIngredients sends the image with the identification prompt
func (a *llmAdapter) IdentifyIngredients(ctx context.Context, img types.Image) ([]types.Ingredient, error) {
	if len(img.Data) == 0 {
		return nil, &Error{Kind: Upstream, Backend: a.name, Op: OpIdentify, Err: fmt.Errorf("image is empty")}
	}
	if img.MediaType == "" {
		img.MediaType = types.DefaultImageType
	}

	text, err := a.run(ctx, OpIdentify, completion{
		Messages:  []types.ChatMessage{{Role: types.RoleUser, Content: identifyPrompt}},
		Image:     &img,
		MaxTokens: identifyMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := extract.DecodeArray[types.Ingredient](text)
	if err != nil {
		return nil, a.unparsable(OpIdentify, text, err)
	}

	ingredients := make([]types.Ingredient, 0, len(parsed))
	for _, ing := range parsed {
		ing = ing.Normalize()
		if ing.Validate() != nil {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

// GenerateRecipes asks for recipe recommendations for the given ingredients
func (a *llmAdapter) GenerateRecipes(ctx context.Context, ingredients []string, cuisines []string) ([]types.Recipe, error) {
	text, err := a.run(ctx, OpRecipes, completion{
		Messages:  []types.ChatMessage{{Role: types.RoleUser, Content: recipePrompt(ingredients, cuisines)}},
		MaxTokens: recipesMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	recipes, err := extract.DecodeArray[types.Recipe](text)
	if err != nil {
		return nil, a.unparsable(OpRecipes, text, err)
	}
	return recipes, nil
}

// Chat replays the whole transcript under the assistant persona
func (a *llmAdapter) Chat(ctx context.Context, transcript []types.ChatMessage, ingredients []string) (ChatReply, error) {
	if len(transcript) == 0 {
		return ChatReply{}, &Error{Kind: Upstream, Backend: a.name, Op: OpChat, Err: fmt.Errorf("transcript is empty")}
	}

	messages := make([]types.ChatMessage, len(transcript))
	for i, msg := range transcript {
		messages[i] = types.ChatMessage{Role: msg.Role.Normalize(), Content: msg.Content}
	}

	text, err := a.run(ctx, OpChat, completion{
		System:    chatSystemPrompt(ingredients),
		Messages:  messages,
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		return ChatReply{}, err
	}

	recipes, dropped := extract.DecodeEmbedded[types.Recipe](text, extract.RecipeStart, extract.RecipeEnd)
	return ChatReply{Text: text, Recipes: recipes, Dropped: dropped}, nil
}
