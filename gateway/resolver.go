package gateway

import (
	"context"
	"fmt"

	"github.com/pevans/yoinker/logging"
	"github.com/pevans/yoinker/passage"
	"github.com/pevans/yoinker/scraper"
)

// MarkupFetcher retrieves the raw markup for one chapter.
type MarkupFetcher interface {
	Fetch(ctx context.Context, ref passage.Reference) (string, error)
}

// Resolver turns a reference and verse selector into passage text by
// fetching, normalizing, tokenizing and selecting. It keeps no state between
// calls and is safe for concurrent use.
type Resolver struct {
	fetcher MarkupFetcher
	config  scraper.PassageConfig
}

// NewResolver creates a resolver over fetcher using the given markup
// signature. Empty config fields take the BibleGateway defaults.
func NewResolver(fetcher MarkupFetcher, config scraper.PassageConfig) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		config:  config.Merge(scraper.DefaultPassageConfig()),
	}
}

// ResolveMap fetches the chapter for ref and returns its verse map.
func (r *Resolver) ResolveMap(ctx context.Context, ref passage.Reference) (*passage.VerseMap, error) {
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reference: %w", err)
	}

	markup, err := r.fetcher.Fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}

	text, err := passage.NormalizeWithConfig(markup, r.config)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", ref, err)
	}

	verses := passage.Tokenize(text)
	logging.FromContext(ctx).Debug("resolved chapter",
		"reference", ref.String(), "verses", verses.Len())

	return verses, nil
}

// Resolve returns the text of the verses named by sel, or the whole chapter
// when sel is empty.
func (r *Resolver) Resolve(ctx context.Context, ref passage.Reference, sel passage.Selector) (string, error) {
	verses, err := r.ResolveMap(ctx, ref)
	if err != nil {
		return "", err
	}
	return passage.Select(verses, sel), nil
}
