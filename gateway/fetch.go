package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pevans/yoinker/logging"
	"github.com/pevans/yoinker/passage"
	"github.com/pevans/yoinker/scraper"
)

const (
	// DefaultTimeout bounds a single passage fetch.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies yoinker to the reference site.
	DefaultUserAgent = "yoinker/1.0 (scripture passage fetcher)"

	// DefaultMaxBytes caps the size of a fetched page.
	DefaultMaxBytes = 10 << 20
)

// FetcherConfig configures a Fetcher.
type FetcherConfig struct {
	Site      scraper.SiteConfig
	Timeout   time.Duration
	UserAgent string
	// MaxBytes caps the page size; larger pages fail instead of being
	// truncated.
	MaxBytes int64
	// Client overrides the HTTP client; its own Timeout is replaced by
	// Timeout.
	Client *http.Client
}

// Fetcher retrieves rendered passage pages over HTTP.
type Fetcher struct {
	site      scraper.SiteConfig
	userAgent string
	maxBytes  int64
	client    *http.Client
}

// NewFetcher creates a fetcher. A base URL is required; timeout and user
// agent fall back to defaults.
func NewFetcher(config FetcherConfig) (*Fetcher, error) {
	if strings.TrimSpace(config.Site.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(config.Site.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	maxBytes := config.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	client := &http.Client{}
	if config.Client != nil {
		clone := *config.Client
		client = &clone
	}
	client.Timeout = timeout

	site := config.Site
	if site.SearchPath == "" {
		site.SearchPath = scraper.DefaultSiteConfig().SearchPath
	}

	return &Fetcher{
		site:      site,
		userAgent: userAgent,
		maxBytes:  maxBytes,
		client:    client,
	}, nil
}

// PassageURL builds the page URL for ref: the search string is path-escaped
// and the version passed as a query parameter.
func (f *Fetcher) PassageURL(ref passage.Reference) string {
	base := strings.TrimRight(f.site.BaseURL, "/")
	path := "/" + strings.TrimLeft(f.site.SearchPath, "/")

	return fmt.Sprintf("%s%s?search=%s&version=%s",
		base, path, url.PathEscape(ref.Query()), url.QueryEscape(ref.Version))
}

// Fetch returns the raw markup of the passage page for ref. Failures are
// *FetchError; timeouts match ErrFetchTimeout and everything else
// ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, ref passage.Reference) (string, error) {
	pageURL := f.PassageURL(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", &FetchError{URL: pageURL, Timeout: isTimeout(err), Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("page exceeds %d bytes", f.maxBytes)}
	}

	logging.FromContext(ctx).Debug("fetched passage markup",
		"url", pageURL, "bytes", len(body), "markup", string(body))

	return string(body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
