package votd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/pevans/yoinker/logging"
)

const (
	// DefaultFeedURL is BibleGateway's verse of the day Atom feed. The %s
	// receives the version.
	DefaultFeedURL = "https://www.biblegateway.com/votd/get/?format=atom&version=%s"
	DefaultVersion = "NIV"
	DefaultTimeout = 10 * time.Second
)

// attributionMarker starts the publisher footer appended to every entry.
const attributionMarker = "Brought to you by"

// Verse is the verse of the day.
type Verse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Link      string `json:"link"`
}

// Client fetches the verse of the day feed.
type Client struct {
	FeedURL    string
	HTTPClient *http.Client
}

// NewClient returns a client for feedURL, or the BibleGateway feed when
// feedURL is empty.
func NewClient(feedURL string) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Client{
		FeedURL:    feedURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (c *Client) feedURL(version string) string {
	if version == "" {
		version = DefaultVersion
	}
	if strings.Contains(c.FeedURL, "%s") {
		return fmt.Sprintf(c.FeedURL, url.QueryEscape(version))
	}
	return c.FeedURL
}

// Fetch returns today's verse in the given version.
func (c *Client) Fetch(ctx context.Context, version string) (*Verse, error) {
	feedURL := c.feedURL(version)
	logging.FromContext(ctx).Debug("fetching verse of the day", "url", feedURL)

	fp := gofeed.NewParser()
	if c.HTTPClient != nil {
		fp.Client = c.HTTPClient
	}

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return VerseFromFeed(feed)
}

// VerseFromFeed reduces the first feed entry to a Verse. Atom entries carry
// the verse in their content and RSS items in their description.
func VerseFromFeed(feed *gofeed.Feed) (*Verse, error) {
	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed has no entries")
	}
	item := feed.Items[0]

	body := item.Content
	if body == "" {
		body = item.Description
	}

	text, err := entryText(body)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("feed entry %q has no text", item.Title)
	}

	return &Verse{
		Reference: strings.TrimSpace(item.Title),
		Text:      text,
		Link:      item.Link,
	}, nil
}

// entryText turns the entry HTML into plain verse text, dropping the
// attribution footer and the surrounding quotation marks.
func entryText(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse entry content: %w", err)
	}

	text := doc.Text()
	if i := strings.Index(text, attributionMarker); i >= 0 {
		text = text[:i]
	}

	text = strings.Join(strings.Fields(text), " ")
	return strings.Trim(text, "\"“”'‘’ "), nil
}
