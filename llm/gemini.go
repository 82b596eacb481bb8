package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pevans/yoinker/logging"
	"google.golang.org/genai"
)

// generator is the slice of the genai models API the Gemini client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient asks a Gemini model for passages.
type GeminiClient struct {
	models      generator
	model       string
	temperature float64
}

// NewGeminiClient creates a client against the Gemini API backend.
func NewGeminiClient(ctx context.Context, config Config) (*GeminiClient, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiClient(client.Models, config), nil
}

func newGeminiClient(models generator, config Config) *GeminiClient {
	model := config.GeminiModel
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		models:      models,
		model:       model,
		temperature: config.Temperature,
	}
}

// Passage asks the model for the passage and returns the first candidate's
// text.
func (c *GeminiClient) Passage(ctx context.Context, req Request) (string, error) {
	contents := []*genai.Content{
		{
			Parts: []*genai.Part{{Text: BuildPrompt(req)}},
			Role:  "user",
		},
	}

	temperature := float32(c.temperature)
	genConfig := &genai.GenerateContentConfig{Temperature: &temperature}

	logging.FromContext(ctx).Debug("sending LLM request", "model", c.model, "provider", ProviderGemini)

	resp, err := c.models.GenerateContent(ctx, c.model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		b.WriteString(part.Text)
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("empty response from LLM")
	}
	return text, nil
}
