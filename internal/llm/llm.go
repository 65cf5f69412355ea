package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pavelanni/studybuddy/internal/llm/prompts"
	"github.com/pavelanni/studybuddy/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Gateway sends a prompt to the completion service and returns its raw text.
// Implementations do not interpret content, retry, or cache.
type Gateway interface {
	Generate(ctx context.Context, prompt string, ct model.ContentType) (string, error)

	// ModelID returns the model identifier this gateway is configured to use.
	ModelID() string
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new OpenAI-compatible gateway.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Generate issues exactly one chat completion request.
func (c *Client) Generate(ctx context.Context, prompt string, ct model.ContentType) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.SystemPrompt(ct)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Reason: "no choices in response"}
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "content_type", ct, "chars", len(raw))
	if strings.TrimSpace(raw) == "" {
		return "", &UpstreamError{Reason: "empty completion"}
	}
	return raw, nil
}

// ModelID returns the configured model name.
func (c *Client) ModelID() string {
	return c.model
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &NetworkError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &NetworkError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &NetworkError{Err: err}
}
