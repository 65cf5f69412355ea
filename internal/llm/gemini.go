package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pavelanni/studybuddy/internal/llm/prompts"
	"github.com/pavelanni/studybuddy/internal/model"
)

var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

// GeminiClient implements Gateway using the Google Gemini SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGemini creates a gateway backed by the Gemini API.
func NewGemini(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  resolveModel(modelName, geminiModels),
	}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string, ct model.ContentType) (string, error) {
	temp := float32(0.7)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompts.SystemPrompt(ct)}},
		},
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", mapGeminiError(err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{Reason: "empty Gemini response"}
	}
	return text, nil
}

func (c *GeminiClient) ModelID() string {
	return c.model
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return &NetworkError{StatusCode: apiErr.Code, Err: err}
	}
	return &NetworkError{Err: err}
}
