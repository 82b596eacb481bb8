package yoinker

import (
	"context"
	"errors"
	"fmt"

	"github.com/pevans/yoinker/history"
	"github.com/pevans/yoinker/llm"
	"github.com/pevans/yoinker/logging"
	"github.com/pevans/yoinker/passage"
)

var (
	// ErrLLMNotConfigured is returned for GPT lookups when no provider is
	// set.
	ErrLLMNotConfigured = errors.New("GPT method is not configured")
	// ErrLLMFailed wraps any provider failure.
	ErrLLMFailed = errors.New("LLM request failed")
)

// PassageResolver produces passage text by scraping.
type PassageResolver interface {
	Resolve(ctx context.Context, ref passage.Reference, sel passage.Selector) (string, error)
}

// Recorder saves completed lookups.
type Recorder interface {
	Record(rec history.Record) error
}

// Service routes lookups to the scraper or the language model and records
// the successful ones.
type Service struct {
	scraper  PassageResolver
	llm      llm.Provider
	recorder Recorder
}

// NewService creates a service. provider and recorder may be nil; GPT
// lookups then fail and nothing is recorded.
func NewService(scraper PassageResolver, provider llm.Provider, recorder Recorder) *Service {
	return &Service{
		scraper:  scraper,
		llm:      provider,
		recorder: recorder,
	}
}

// Yoink fetches the passage ref, limited to sel, with the given method.
func (s *Service) Yoink(ctx context.Context, method Method, ref passage.Reference, sel passage.Selector) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", err
	}

	logger := logging.FromContext(ctx)
	logger.Info("yoinking passage", "method", method, "reference", ref.String(), "verses", sel.String())

	var text string
	var err error
	switch method {
	case MethodBG:
		text, err = s.scraper.Resolve(ctx, ref, sel)
	case MethodGPT:
		if s.llm == nil {
			return "", ErrLLMNotConfigured
		}
		text, err = s.llm.Passage(ctx, llm.Request{
			Version:  ref.Version,
			Book:     ref.Book,
			Chapter:  ref.Chapter,
			Selector: sel,
		})
		if err != nil {
			err = fmt.Errorf("%w for %s: %w", ErrLLMFailed, ref, err)
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	if err != nil {
		return "", err
	}

	// History is best effort; a lookup never fails because of it
	if s.recorder != nil {
		rec := history.NewRecord(method.String(), ref, sel, text)
		if err := s.recorder.Record(rec); err != nil {
			logger.Warn("failed to record lookup", "error", err)
		}
	}

	return text, nil
}
