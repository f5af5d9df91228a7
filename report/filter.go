package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/scipunch/newspulse/pipeline"
)

const sinceLayout = "2006-01-02"

// ParseSince parses a YYYY-MM-DD date as midnight UTC. An empty string
// means no date filter.
func ParseSince(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(sinceLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date '%s', expected YYYY-MM-DD: %w", s, err)
	}
	return &t, nil
}

// Filter keeps items published at or after since, preserving order.
// With an active filter, items with an unknown publish date are dropped.
// A nil since returns items unchanged.
func Filter(items []pipeline.ClassifiedItem, since *time.Time) []pipeline.ClassifiedItem {
	if since == nil {
		return items
	}
	kept := make([]pipeline.ClassifiedItem, 0, len(items))
	for _, item := range items {
		if !item.HasDate() || item.Published.Before(*since) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
