package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// requestTimeout bounds every upstream call so a hung model request can
// never hang the caller; callers treat a timeout like a malformed reply.
const requestTimeout = 90 * time.Second

// Client is the generation collaborator boundary: a system instruction and a
// user message in, free text out. Errors are returned, never panicked, so
// callers can fall back deterministically.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// GeminiClient calls the Gemini API through the google genai SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return text, nil
}
