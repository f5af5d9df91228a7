package types

import (
	"context"
	"time"
)

// FeedItem represents a single item in a feed
type FeedItem struct {
	Title       string
	Link        string
	Description string
	Published   *time.Time // nil when pubDate is missing or unparseable
}

// HasDate reports whether the item carries a known publish date
func (i FeedItem) HasDate() bool {
	return i.Published != nil
}

// FeedFetcher fetches at most limit items for a search query
type FeedFetcher interface {
	Fetch(ctx context.Context, query string, limit int) ([]FeedItem, error)
}
