package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	anthropicDefaultAPIURL = "https://api.anthropic.com/v1"
	anthropicDefaultModel  = "claude-sonnet-4-20250514"
	anthropicAPIVersion    = "2023-06-01"
)

// anthropicClient talks to the Messages API directly over HTTP
type anthropicClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

// NewAnthropic builds the Claude vision backend
func NewAnthropic(opts Options) (Adapter, error) {
	vendor := opts.Anthropic
	if strings.TrimSpace(vendor.APIKey) == "" {
		return nil, &Error{Kind: BackendUnavailable, Backend: NameAnthropic, Op: "init", Err: fmt.Errorf("ANTHROPIC_API_KEY or ANTHROPIC_API_KEY_FILE must be set")}
	}

	client := &anthropicClient{
		apiKey:     vendor.APIKey,
		apiURL:     strings.TrimRight(orDefault(vendor.BaseURL, anthropicDefaultAPIURL), "/"),
		model:      orDefault(vendor.Model, anthropicDefaultModel),
		httpClient: opts.httpClient(),
	}
	return newLLMAdapter(NameAnthropic, client, opts.Timeout), nil
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role string `json:"role"`
	// Content is a plain string or a list of content blocks
	Content any `json:"content"`
}

type anthropicBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
}

func (c *anthropicClient) buildRequest(req completion) anthropicRequest {
	messages := make([]anthropicMessage, 0, len(req.Messages))
	imageSent := false
	for _, msg := range req.Messages {
		role := string(msg.Role.Normalize())
		if req.Image != nil && !imageSent && role == "user" {
			imageSent = true
			messages = append(messages, anthropicMessage{
				Role: role,
				Content: []anthropicBlock{
					{
						Type: "image",
						Source: &anthropicImageSource{
							Type:      "base64",
							MediaType: req.Image.MediaType,
							Data:      base64.StdEncoding.EncodeToString(req.Image.Data),
						},
					},
					{Type: "text", Text: msg.Content},
				},
			})
			continue
		}
		messages = append(messages, anthropicMessage{Role: role, Content: msg.Content})
	}

	return anthropicRequest{
		Model:     c.model,
		MaxTokens: req.MaxTokens,
		System:    req.System,
		Messages:  messages,
	}
}

func (c *anthropicClient) complete(ctx context.Context, req completion) (string, error) {
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
