package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pevans/yoinker/passage"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	DefaultOpenAIModel = "gpt-3.5-turbo"
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultTimeout     = 60 * time.Second
)

// Request names the passage a provider should produce.
type Request struct {
	Version  string
	Book     string
	Chapter  string
	Selector passage.Selector
}

// Provider returns plain passage text from a language model.
type Provider interface {
	Passage(ctx context.Context, req Request) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	// OpenAI-compatible chat completions endpoint
	URL   string
	Token string
	Model string
	// Gemini API key
	GeminiKey   string
	GeminiModel string
	Temperature float64
	Timeout     time.Duration
}

// Validate fails when the selected provider has no credentials.
func (c Config) Validate() error {
	switch c.providerName() {
	case ProviderOpenAI:
		if c.Token == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the %s provider", ProviderOpenAI)
		}
	case ProviderGemini:
		if c.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the %s provider", ProviderGemini)
		}
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	return nil
}

func (c Config) providerName() string {
	if c.Provider == "" {
		return ProviderOpenAI
	}
	return strings.ToLower(c.Provider)
}

// New builds the provider named by config.Provider (openai by default).
func New(ctx context.Context, config Config) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.providerName() {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	default:
		return NewOpenAIClient(config)
	}
}

// BuildPrompt phrases the passage request for a language model.
func BuildPrompt(req Request) string {
	ref := fmt.Sprintf("%s %s", req.Book, req.Chapter)
	if len(req.Selector) > 0 {
		ref += ":" + req.Selector.String()
	}

	return fmt.Sprintf("Get %s from the %s. Give me only the plain-text with no verse markers and no chapter markers",
		ref, req.Version)
}
