package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pevans/yoinker/logging"
)

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	url         string
	token       string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewOpenAIClient creates a client. A token is required.
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	url := config.URL
	if url == "" {
		url = DefaultOpenAIURL
	}
	model := config.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OpenAIClient{
		url:         url,
		token:       config.Token,
		model:       model,
		temperature: config.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

// Passage asks the model for the passage and returns its trimmed answer.
func (c *OpenAIClient) Passage(ctx context.Context, req Request) (string, error) {
	reqBody := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "user", Content: BuildPrompt(req)},
		},
		Temperature: c.temperature,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	logger := logging.FromContext(ctx)
	logger.Debug("sending LLM request", "model", c.model, "body", string(jsonBody))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	logger.Debug("LLM usage",
		"prompt_tokens", chatResp.Usage.PromptTokens,
		"completion_tokens", chatResp.Usage.CompletionTokens,
		"total_tokens", chatResp.Usage.TotalTokens)

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from LLM")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response from LLM")
	}

	return content, nil
}
