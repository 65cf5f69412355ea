package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pavelanni/studybuddy/internal/llm/prompts"
	"github.com/pavelanni/studybuddy/internal/model"
)

const anthropicMaxTokens = 4096

// anthropicModels maps friendly names to Anthropic model IDs.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

// AnthropicClient implements Gateway using the Anthropic SDK.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates a gateway backed by the Anthropic Messages API.
func NewAnthropic(apiKey, modelName string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client: &client,
		model:  resolveModel(modelName, anthropicModels),
	}, nil
}

func (c *AnthropicClient) Generate(ctx context.Context, prompt string, ct model.ContentType) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: anthropicMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: prompts.SystemPrompt(ct)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(0.7),
	})
	if err != nil {
		return "", mapAnthropicError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", &UpstreamError{Reason: "no text content in Anthropic response"}
	}
	return sb.String(), nil
}

func (c *AnthropicClient) ModelID() string {
	return c.model
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &NetworkError{StatusCode: apiErr.StatusCode, Err: err}
	}
	return &NetworkError{Err: err}
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
