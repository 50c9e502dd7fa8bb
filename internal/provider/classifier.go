package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pageza/fridgechef/backend/internal/types"
)

const (
	// classifierMinScore drops low-confidence labels
	classifierMinScore = 0.05
	classifierQuantity = "Not specified"
)

// categoryKeywords maps label keywords onto categories. Order matters, the
// first hit wins.
var categoryKeywords = []struct {
	category types.Category
	words    []string
}{
	{types.CategoryFruits, []string{"apple", "banana", "orange", "grape", "berry", "lemon", "lime", "mango", "pear", "peach", "pineapple", "melon", "kiwi", "cherry", "plum", "avocado", "pomegranate"}},
	{types.CategoryVegetables, []string{"carrot", "tomato", "lettuce", "spinach", "broccoli", "pepper", "onion", "potato", "cucumber", "cabbage", "cauliflower", "garlic", "zucchini", "eggplant", "celery", "mushroom", "corn", "pea", "bean", "okra", "radish", "beet", "ginger"}},
	{types.CategoryProteins, []string{"chicken", "beef", "pork", "fish", "salmon", "tuna", "shrimp", "egg", "tofu", "turkey", "lamb", "bacon", "sausage", "ham"}},
	{types.CategoryDairy, []string{"milk", "cheese", "yogurt", "yoghurt", "butter", "cream"}},
	{types.CategoryGrains, []string{"bread", "rice", "pasta", "noodle", "oat", "flour", "cereal", "tortilla", "bagel"}},
	{types.CategoryCondiments, []string{"ketchup", "mustard", "mayonnaise", "mayo", "sauce", "vinegar", "oil", "salt", "jam", "honey", "dressing", "syrup"}},
}

// labelPrefixes are freshness qualifiers some food classifiers emit
var labelPrefixes = []string{"fresh_", "rotten_", "fresh ", "rotten "}

// CategoryForLabel maps a classifier label to a category by prefix or
// substring match against the keyword table
func CategoryForLabel(label string) types.Category {
	name := strings.ToLower(cleanLabel(label))
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.HasPrefix(name, word) || strings.Contains(name, word) {
				return entry.category
			}
		}
	}
	return types.CategoryOther
}

func cleanLabel(label string) string {
	name := strings.TrimSpace(label)
	for _, prefix := range labelPrefixes {
		if len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			name = name[len(prefix):]
			break
		}
	}
	// ImageNet style labels list synonyms after a comma
	if idx := strings.Index(name, ","); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}

func displayName(label string) string {
	words := strings.Fields(cleanLabel(label))
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToTitle(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

type classifierLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier identifies ingredients with a label-only image classification
// endpoint. Recipes and chat come from the curated catalog.
type Classifier struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
	fallback   func(err error)
}

// NewClassifier builds the classifier backend
func NewClassifier(opts Options) (*Classifier, error) {
	vendor := opts.Classifier
	if strings.TrimSpace(vendor.BaseURL) == "" {
		return nil, &Error{Kind: BackendUnavailable, Backend: NameClassifier, Op: "init", Err: fmt.Errorf("CLASSIFIER_API_URL must be set")}
	}
	return &Classifier{
		apiURL:     vendor.BaseURL,
		apiKey:     vendor.APIKey,
		httpClient: opts.httpClient(),
		fallback:   opts.OnFallback,
	}, nil
}

func (c *Classifier) Name() string { return NameClassifier }

// IdentifyIngredients returns the demo ingredient list when the endpoint
// fails instead of propagating the error
func (c *Classifier) IdentifyIngredients(ctx context.Context, img types.Image) ([]types.Ingredient, error) {
	labels, err := c.classify(ctx, img)
	if err != nil {
		if c.fallback != nil {
			c.fallback(err)
		}
		return DemoIngredients(), nil
	}
	return ingredientsFromLabels(labels), nil
}

func ingredientsFromLabels(labels []classifierLabel) []types.Ingredient {
	seen := make(map[string]bool)
	ingredients := make([]types.Ingredient, 0, len(labels))
	for _, l := range labels {
		if l.Score < classifierMinScore {
			continue
		}
		name := displayName(l.Label)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		ingredients = append(ingredients, types.Ingredient{
			Name:          name,
			Quantity:      classifierQuantity,
			Category:      CategoryForLabel(l.Label),
			FreshnessDays: days(types.DefaultFreshnessDays),
		})
	}
	return ingredients
}

func (c *Classifier) classify(ctx context.Context, img types.Image) ([]classifierLabel, error) {
	mediaType := img.MediaType
	if mediaType == "" {
		mediaType = types.DefaultImageType
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mediaType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var labels []classifierLabel
	if err := json.Unmarshal(body, &labels); err != nil {
		return nil, fmt.Errorf("failed to decode labels: %w", err)
	}
	return labels, nil
}

func (c *Classifier) GenerateRecipes(ctx context.Context, ingredients []string, cuisines []string) ([]types.Recipe, error) {
	return CatalogRecipes(ingredients, cuisines), nil
}

func (c *Classifier) Chat(ctx context.Context, transcript []types.ChatMessage, ingredients []string) (ChatReply, error) {
	return cannedChat(transcript, ingredients)
}
