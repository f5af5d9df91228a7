package fetcher

import (
	"fmt"
	"net/url"
)

// DefaultEndpoint is the Google News search feed
const DefaultEndpoint = "https://news.google.com/rss/search"

// Locale holds the fixed language parameters appended to every search URL
type Locale struct {
	Language string `toml:"hl"`
	Country  string `toml:"gl"`
	Edition  string `toml:"ceid"`
}

// DefaultLocale is Brazilian Portuguese
var DefaultLocale = Locale{
	Language: "pt-BR",
	Country:  "BR",
	Edition:  "BR:pt-419",
}

// BuildFeedURL returns the search feed URL for query using the default endpoint and locale
func BuildFeedURL(query string) string {
	return DefaultLocale.BuildURL(DefaultEndpoint, query)
}

// BuildURL percent-encodes query into a search feed URL on endpoint
func (l Locale) BuildURL(endpoint, query string) string {
	return fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s",
		endpoint, url.QueryEscape(query), l.Language, l.Country, l.Edition)
}

// FetchError is a transport or HTTP status failure. It is recoverable:
// the run yields no items and the caller shows a warning.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feed request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("feed request to %s failed with %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError means the response body is not a well-formed feed document
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse feed from %s with %s", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
