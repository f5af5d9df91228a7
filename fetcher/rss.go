package fetcher

import (
	"bytes"
	"context"
	"encoding/xml"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html/charset"

	"github.com/scipunch/newspulse/fetcher/types"
	"github.com/scipunch/newspulse/tracing"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0"

	maxBodySize = 16 << 20
)

// pubDate layouts, tried in order. Feeds emit RFC 1123 dates; some drop the
// leading zero of the day.
var pubDateLayouts = []string{
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// Options configures an RSSFetcher. Zero fields fall back to defaults.
type Options struct {
	Endpoint  string
	Locale    Locale
	Timeout   time.Duration
	UserAgent string
}

// RSSFetcher fetches search feeds over HTTP and parses them using gofeed
type RSSFetcher struct {
	client    *http.Client
	parser    *gofeed.Parser
	endpoint  string
	locale    Locale
	userAgent string
}

// NewRSSFetcher creates a new RSS fetcher
func NewRSSFetcher(opts Options) *RSSFetcher {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Locale == (Locale{}) {
		opts.Locale = DefaultLocale
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	return &RSSFetcher{
		client:    &http.Client{Timeout: opts.Timeout},
		parser:    gofeed.NewParser(),
		endpoint:  opts.Endpoint,
		locale:    opts.Locale,
		userAgent: opts.UserAgent,
	}
}

// URL returns the feed URL requested for query
func (f *RSSFetcher) URL(query string) string {
	return f.locale.BuildURL(f.endpoint, query)
}

// Fetch retrieves the search feed for query and returns at most limit items
// in document order. The returned slice is never nil.
func (f *RSSFetcher) Fetch(ctx context.Context, query string, limit int) ([]types.FeedItem, error) {
	feedURL := f.URL(query)
	ctx, span := tracing.Start(ctx, "fetch-feed",
		attribute.String("feed.url", feedURL),
		attribute.Int("feed.limit", limit))
	defer span.End()

	body, err := f.get(ctx, feedURL)
	if err != nil {
		tracing.Fail(span, err)
		return []types.FeedItem{}, err
	}

	if err := checkWellFormed(body); err != nil {
		err = &ParseError{URL: feedURL, Err: err}
		tracing.Fail(span, err)
		return []types.FeedItem{}, err
	}

	feed, err := f.parser.Parse(bytes.NewReader(body))
	if err != nil {
		err = &ParseError{URL: feedURL, Err: err}
		tracing.Fail(span, err)
		return []types.FeedItem{}, err
	}

	n := min(max(limit, 0), len(feed.Items))
	items := make([]types.FeedItem, 0, n)
	for _, item := range feed.Items[:n] {
		items = append(items, types.FeedItem{
			Title:       strings.TrimSpace(html.UnescapeString(item.Title)),
			Link:        strings.TrimSpace(item.Link),
			Description: strings.TrimSpace(html.UnescapeString(item.Description)),
			Published:   parsePubDate(item.Published),
		})
	}

	span.SetAttributes(attribute.Int("feed.items", len(items)))
	slog.Debug("feed fetched", "url", feedURL, "total", len(feed.Items), "kept", len(items))
	return items, nil
}

func (f *RSSFetcher) get(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &FetchError{URL: feedURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: feedURL, Err: err}
	}
	return body, nil
}

// checkWellFormed rejects bodies that are not well-formed XML. gofeed reads
// leniently and would accept stray ampersands, undeclared entities and
// mismatched tags, silently dropping content.
func checkWellFormed(body []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charset.NewReaderLabel
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// parsePubDate returns nil for a missing or malformed date
func parsePubDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	slog.Debug("unparseable pubDate, treating as unknown", "value", raw)
	return nil
}
