// Package provider routes ingredient identification, recipe generation and
// health chat to one of several interchangeable AI backends.
package provider

import (
	"context"

	"github.com/pageza/fridgechef/backend/internal/types"
)

// Backend names accepted by New
const (
	NameAnthropic  = "anthropic"
	NameOpenAI     = "openai"
	NameGemini     = "gemini"
	NameClassifier = "classifier"
	NameMock       = "mock"
)

// Names lists every selectable backend
var Names = []string{NameAnthropic, NameOpenAI, NameGemini, NameClassifier, NameMock}

// Operation names, used in errors, logs and metrics
const (
	OpIdentify = "identify_ingredients"
	OpRecipes  = "generate_recipes"
	OpChat     = "chat"
)

// ChatReply is the assistant's answer plus any recipes it embedded
type ChatReply struct {
	// Text is the full reply, markers included
	Text    string
	Recipes []types.Recipe
	// Dropped counts embedded spans that did not decode into a recipe
	Dropped int
}

// Adapter is implemented by every backend. Implementations keep no
// conversation state and are safe for concurrent use.
type Adapter interface {
	IdentifyIngredients(ctx context.Context, img types.Image) ([]types.Ingredient, error)
	GenerateRecipes(ctx context.Context, ingredients []string, cuisines []string) ([]types.Recipe, error)
	Chat(ctx context.Context, transcript []types.ChatMessage, ingredients []string) (ChatReply, error)
	Name() string
}

// Unavailable fails every call with BackendUnavailable. It is installed when
// the configured backend could not be constructed.
type Unavailable struct {
	Backend string
	Cause   error
}

func (u *Unavailable) fail(op string) error {
	return &Error{Kind: BackendUnavailable, Backend: u.Backend, Op: op, Err: u.Cause}
}

func (u *Unavailable) IdentifyIngredients(context.Context, types.Image) ([]types.Ingredient, error) {
	return nil, u.fail(OpIdentify)
}

func (u *Unavailable) GenerateRecipes(context.Context, []string, []string) ([]types.Recipe, error) {
	return nil, u.fail(OpRecipes)
}

func (u *Unavailable) Chat(context.Context, []types.ChatMessage, []string) (ChatReply, error) {
	return ChatReply{}, u.fail(OpChat)
}

func (u *Unavailable) Name() string { return u.Backend }

var (
	_ Adapter = (*Unavailable)(nil)
	_ Adapter = (*llmAdapter)(nil)
	_ Adapter = (*Mock)(nil)
	_ Adapter = (*Classifier)(nil)
)
