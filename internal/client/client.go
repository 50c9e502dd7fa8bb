// Package client calls the FridgeChef HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pageza/fridgechef/backend/internal/types"
)

// DefaultTimeout matches the server's provider timeout; image analysis is slow
const DefaultTimeout = 60 * time.Second

// Fallback messages used when the server gives no error text
const (
	identifyFallback = "Failed to identify ingredients. Please try again."
	recipesFallback  = "Failed to generate recipes. Please try again."
	chatFallback     = "Failed to send message. Please try again."
	healthFallback   = "Server is not reachable. Please try again."
)

// APIError is returned for any failed call. Message is safe to show users.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
	Err        error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// Client talks to one FridgeChef server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default 60 second client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for baseURL, e.g. http://localhost:3001/api
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EncodeImage turns raw image bytes into the data URL the server accepts and
// reports the detected media type
func EncodeImage(data []byte) (string, string) {
	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = types.DefaultImageType
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), mediaType
}

// IdentifyIngredients uploads an image (raw base64 or a data URL)
func (c *Client) IdentifyIngredients(ctx context.Context, imageData, imageType string) ([]types.Ingredient, error) {
	var resp types.IdentifyIngredientsResponse
	err := c.do(ctx, http.MethodPost, "/identify-ingredients", types.IdentifyIngredientsRequest{
		ImageData: imageData,
		ImageType: imageType,
	}, &resp, identifyFallback)
	if err != nil {
		return nil, err
	}
	return resp.Ingredients, nil
}

// GenerateRecipes asks for recipes; an empty cuisine list means any cuisine
func (c *Client) GenerateRecipes(ctx context.Context, ingredients []types.Ingredient, cuisines []string) ([]types.Recipe, error) {
	if cuisines == nil {
		cuisines = []string{}
	}
	var resp types.GenerateRecipesResponse
	err := c.do(ctx, http.MethodPost, "/generate-recipes", types.GenerateRecipesRequest{
		Ingredients: toList(ingredients),
		Cuisines:    cuisines,
	}, &resp, recipesFallback)
	if err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}

// HealthChat sends the whole transcript and returns the assistant's reply
func (c *Client) HealthChat(ctx context.Context, messages []types.ChatMessage, ingredients []types.Ingredient) (types.HealthChatResponse, error) {
	var resp types.HealthChatResponse
	err := c.do(ctx, http.MethodPost, "/health-chat", types.HealthChatRequest{
		Messages:    messages,
		Ingredients: toList(ingredients),
	}, &resp, chatFallback)
	return resp, err
}

// Health checks the server is up
func (c *Client) Health(ctx context.Context) (types.HealthResponse, error) {
	var resp types.HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &resp, healthFallback)
	return resp, err
}

func toList(ingredients []types.Ingredient) types.IngredientList {
	list := make(types.IngredientList, len(ingredients))
	for i, ing := range ingredients {
		list[i] = types.IngredientInput{Ingredient: ing}
	}
	return list
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fallback, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Message: fallback, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    fallback,
			Err:        fmt.Errorf("request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
		var body types.ErrorResponse
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			apiErr.Message = body.Error
			apiErr.Details = body.Details
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
