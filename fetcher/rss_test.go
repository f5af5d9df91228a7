package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

const threeItemFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Busca</title>
  <link>https://news.example.com</link>
  <description>search results</description>
  <item>
    <title>Primeira &amp;amp; notícia</title>
    <link> https://example.com/1 </link>
    <description>&lt;a href="https://example.com/1"&gt;Avanço da IA&lt;/a&gt;</description>
    <pubDate>Fri, 17 Oct 2025 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Segunda</title>
    <link>https://example.com/2</link>
    <description>Risco em destaque</description>
    <pubDate>ontem à tarde</pubDate>
  </item>
  <item>
    <title>Terceira</title>
    <link>https://example.com/3</link>
    <description></description>
  </item>
</channel>
</rss>`

func newTestServer(t *testing.T, handler http.HandlerFunc) *RSSFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRSSFetcher(Options{Endpoint: srv.URL + "/rss/search", Timeout: 2 * time.Second})
}

func serveFeed(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}
}

func TestBuildFeedURL(t *testing.T) {
	got := BuildFeedURL("a b")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("BuildFeedURL produced invalid URL %q: %v", got, err)
	}
	if !strings.Contains(got, "q=a+b") {
		t.Errorf("expected encoded query in %q", got)
	}
	if q := u.Query().Get("q"); q != "a b" {
		t.Errorf("query round trip = %q, want %q", q, "a b")
	}
	if u.Query().Get("hl") != "pt-BR" || u.Query().Get("gl") != "BR" || u.Query().Get("ceid") != "BR:pt-419" {
		t.Errorf("unexpected locale params in %q", got)
	}
}

func TestBuildFeedURL_Special(t *testing.T) {
	tests := []string{"", "Inteligência Artificial Piauí", "a&b=c#d", "100%"}
	for _, q := range tests {
		t.Run(q, func(t *testing.T) {
			u, err := url.Parse(BuildFeedURL(q))
			if err != nil {
				t.Fatalf("invalid URL: %v", err)
			}
			if got := u.Query().Get("q"); got != q {
				t.Errorf("query = %q, want %q", got, q)
			}
		})
	}
}

func TestFetch_RespectsLimitAndOrder(t *testing.T) {
	f := newTestServer(t, serveFeed(threeItemFeed))

	items, err := f.Fetch(context.Background(), "ia", 2)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Link != "https://example.com/1" || items[1].Link != "https://example.com/2" {
		t.Errorf("items out of order: %q, %q", items[0].Link, items[1].Link)
	}
}

func TestFetch_ItemFields(t *testing.T) {
	f := newTestServer(t, serveFeed(threeItemFeed))

	items, err := f.Fetch(context.Background(), "ia", 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Primeira & notícia" {
		t.Errorf("title not unescaped: %q", first.Title)
	}
	if !strings.HasPrefix(first.Description, "<a href=") {
		t.Errorf("description should carry markup, got %q", first.Description)
	}
	if first.Published == nil {
		t.Fatal("expected parsed pubDate")
	}
	want := time.Date(2025, 10, 17, 10, 0, 0, 0, time.UTC)
	if !first.Published.Equal(want) {
		t.Errorf("published = %v, want %v", first.Published, want)
	}

	if items[1].Published != nil {
		t.Errorf("malformed pubDate should be nil, got %v", items[1].Published)
	}
	if items[2].Published != nil || items[2].Description != "" {
		t.Errorf("missing fields should stay empty: %+v", items[2])
	}
}

func TestFetch_SendsUserAgentAndQuery(t *testing.T) {
	var gotUA, gotQuery string
	f := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		gotQuery = r.URL.Query().Get("q")
		serveFeed(threeItemFeed)(w, r)
	})

	if _, err := f.Fetch(context.Background(), "Inteligência Artificial", 1); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}
	if gotQuery != "Inteligência Artificial" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestFetch_EmptyFeed(t *testing.T) {
	f := newTestServer(t, serveFeed(`<rss version="2.0"><channel><title>x</title></channel></rss>`))

	items, err := f.Fetch(context.Background(), "nada", 15)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", items)
	}
}

func TestFetch_StatusError(t *testing.T) {
	f := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	})

	items, err := f.Fetch(context.Background(), "ia", 5)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", fetchErr.StatusCode)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected no items on fetch error, got %d", len(items))
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	f := NewRSSFetcher(Options{Endpoint: endpoint, Timeout: time.Second})
	_, err := f.Fetch(context.Background(), "ia", 5)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Unwrap() == nil {
		t.Error("transport failure should wrap the cause")
	}
}

func TestFetch_MalformedXML(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated", `<rss><channel><item><title>broken`},
		{"bare ampersand", `<rss><channel><item><title>A & B</title></item></channel></rss>`},
		{"mismatched tag", `<rss><channel><item><title>A</b></title><description>lost</description></item></channel></rss>`},
		{"undeclared entity", `<rss><channel><item><title>A&nbsp;B</title></item></channel></rss>`},
		{"unquoted attribute", `<rss version=2.0><channel><item><title>A</title></item></channel></rss>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestServer(t, serveFeed(tt.body))

			items, err := f.Fetch(context.Background(), "ia", 5)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			var fetchErr *FetchError
			if errors.As(err, &fetchErr) {
				t.Error("parse failure must not be reported as a fetch failure")
			}
			if items == nil || len(items) != 0 {
				t.Errorf("expected empty non-nil items, got %v", items)
			}
		})
	}
}

func TestFetch_DeclaredCharset(t *testing.T) {
	body := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<rss version=\"2.0\"><channel><item><title>Inova\xe7\xe3o</title></item></channel></rss>"
	f := newTestServer(t, serveFeed(body))

	items, err := f.Fetch(context.Background(), "ia", 5)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestParsePubDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"rfc1123", "Mon, 06 Oct 2025 14:30:00 GMT", true},
		{"single digit day", "Mon, 6 Oct 2025 14:30:00 GMT", true},
		{"empty", "", false},
		{"numeric zone", "Mon, 06 Oct 2025 14:30:00 +0000", false},
		{"garbage", "yesterday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePubDate(tt.input)
			if (got != nil) != tt.ok {
				t.Errorf("parsePubDate(%q) = %v, want ok=%v", tt.input, got, tt.ok)
			}
		})
	}
}
