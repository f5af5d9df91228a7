// Package pipeline turns a search query into an ordered, classified result set.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/scipunch/newspulse/fetcher"
	"github.com/scipunch/newspulse/fetcher/types"
	"github.com/scipunch/newspulse/normalizer"
	"github.com/scipunch/newspulse/sentiment"
	"github.com/scipunch/newspulse/tracing"
)

// ErrNoResults means the feed was fetched but held no items. It is a
// warning for the caller, not a failure.
var ErrNoResults = errors.New("no news found")

// ClassifiedItem is a feed item with its normalized text and sentiment
type ClassifiedItem struct {
	types.FeedItem
	NormalizedText string
	Sentiment      sentiment.Label
}

// ResultSet is the complete output of one run
type ResultSet struct {
	ID        string
	Query     string
	FetchedAt time.Time
	Items     []ClassifiedItem
}

// Empty reports whether the set holds no items
func (rs ResultSet) Empty() bool {
	return len(rs.Items) == 0
}

// Classifier labels normalized text
type Classifier interface {
	Classify(text string) sentiment.Label
}

type Pipeline struct {
	fetcher    types.FeedFetcher
	classifier Classifier
	now        func() time.Time
}

func New(f types.FeedFetcher, c Classifier) *Pipeline {
	return &Pipeline{fetcher: f, classifier: c, now: time.Now}
}

// Run fetches up to limit items for query and classifies them in feed order.
//
// A *fetcher.FetchError is returned together with an empty result set and
// is meant to be shown as a warning. ErrNoResults signals an empty feed.
// Any other error, such as *fetcher.ParseError, aborts the run.
func (p *Pipeline) Run(ctx context.Context, query string, limit int) (ResultSet, error) {
	ctx, span := tracing.Start(ctx, "pipeline-run",
		attribute.String("query", query),
		attribute.Int("limit", limit))
	defer span.End()

	rs := ResultSet{
		ID:        uuid.NewString(),
		Query:     query,
		FetchedAt: p.now(),
		Items:     []ClassifiedItem{},
	}
	span.SetAttributes(attribute.String("run.id", rs.ID))

	raw, err := p.fetcher.Fetch(ctx, query, limit)
	if err != nil {
		tracing.Fail(span, err)
		var fetchErr *fetcher.FetchError
		if errors.As(err, &fetchErr) {
			slog.Warn("feed fetch failed", "run", rs.ID, "error", err)
			return rs, err
		}
		return rs, fmt.Errorf("run %s failed with %w", rs.ID, err)
	}
	if len(raw) == 0 {
		slog.Warn("feed returned no items", "run", rs.ID, "query", query)
		return rs, ErrNoResults
	}

	rs.Items = make([]ClassifiedItem, 0, len(raw))
	for _, item := range raw {
		rs.Items = append(rs.Items, p.classify(item))
	}

	slog.Info("news classified", "run", rs.ID, "query", query, "items", len(rs.Items))
	return rs, nil
}

func (p *Pipeline) classify(item types.FeedItem) ClassifiedItem {
	text := normalizer.Normalize(item.Description)
	return ClassifiedItem{
		FeedItem:       item,
		NormalizedText: text,
		Sentiment:      p.classifier.Classify(text),
	}
}
