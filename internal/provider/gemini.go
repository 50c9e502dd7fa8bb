package provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pageza/fridgechef/backend/internal/types"
)

const geminiDefaultModel = "gemini-2.5-flash"

type geminiModelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newGeminiClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

type geminiClient struct {
	models geminiModelsClient
	model  string
}

// NewGemini builds the Google Gemini vision backend
func NewGemini(ctx context.Context, opts Options) (Adapter, error) {
	vendor := opts.Gemini
	apiKey := strings.TrimSpace(vendor.APIKey)
	if apiKey == "" {
		return nil, &Error{Kind: BackendUnavailable, Backend: NameGemini, Op: "init", Err: fmt.Errorf("GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")}
	}

	client, err := newGeminiClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.httpClient(),
	})
	if err != nil {
		return nil, &Error{Kind: BackendUnavailable, Backend: NameGemini, Op: "init", Err: fmt.Errorf("create gemini client: %w", err)}
	}

	return newLLMAdapter(NameGemini, &geminiClient{
		models: client.Models,
		model:  orDefault(vendor.Model, geminiDefaultModel),
	}, opts.Timeout), nil
}

func (c *geminiClient) buildRequest(req completion) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	imageSent := false
	for _, msg := range req.Messages {
		if msg.Role.Normalize() == types.RoleAssistant {
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: msg.Content}},
			})
			continue
		}

		parts := []*genai.Part{{Text: msg.Content}}
		if req.Image != nil && !imageSent {
			imageSent = true
			parts = append([]*genai.Part{{
				InlineData: &genai.Blob{Data: req.Image.Data, MIMEType: req.Image.MediaType},
			}}, parts...)
		}
		contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})
	}

	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	return contents, config
}

func (c *geminiClient) complete(ctx context.Context, req completion) (string, error) {
	contents, config := c.buildRequest(req)

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", err
	}

	text := visibleText(resp)
	if text == "" {
		return "", fmt.Errorf("no response from API")
	}
	return text, nil
}

func visibleText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
