package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pageza/fridgechef/backend/internal/types"
)

const (
	openAIDefaultAPIURL = "https://api.openai.com/v1"
	openAIDefaultModel  = "gpt-4o"
)

type openAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAI builds the OpenAI vision backend. Any OpenAI-compatible
// endpoint works through OPENAI_BASE_URL.
func NewOpenAI(opts Options) (Adapter, error) {
	vendor := opts.OpenAI
	if strings.TrimSpace(vendor.APIKey) == "" {
		return nil, &Error{Kind: BackendUnavailable, Backend: NameOpenAI, Op: "init", Err: fmt.Errorf("OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")}
	}

	client := openai.NewClient(
		option.WithAPIKey(vendor.APIKey),
		option.WithBaseURL(orDefault(vendor.BaseURL, openAIDefaultAPIURL)),
		option.WithHTTPClient(opts.httpClient()),
		option.WithMaxRetries(0),
	)

	return newLLMAdapter(NameOpenAI, &openAIClient{
		client: client,
		model:  orDefault(vendor.Model, openAIDefaultModel),
	}, opts.Timeout), nil
}

func dataURL(img *types.Image) string {
	return "data:" + img.MediaType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func (c *openAIClient) buildParams(req completion) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}

	imageSent := false
	for _, msg := range req.Messages {
		if msg.Role.Normalize() == types.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(msg.Content))
			continue
		}
		if req.Image != nil && !imageSent {
			imageSent = true
			messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL(req.Image)}),
				openai.TextContentPart(msg.Content),
			}))
			continue
		}
		messages = append(messages, openai.UserMessage(msg.Content))
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	return params
}

func (c *openAIClient) complete(ctx context.Context, req completion) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.buildParams(req))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}
	return resp.Choices[0].Message.Content, nil
}
