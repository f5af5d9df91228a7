// Package normalizer turns feed descriptions into plain lowercase text
// suitable for keyword matching.
package normalizer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// skipped elements hold no readable text
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Normalize strips markup from raw, joins text fragments with single
// spaces, collapses whitespace and lowercases the result.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(raw string) string {
	text := normalizeOnce(raw)
	for {
		next := normalizeOnce(text)
		// a pass past the first only unescapes or drops markup, so a
		// changed result is strictly shorter and the loop terminates
		if len(next) >= len(text) {
			return text
		}
		text = next
	}
}

func normalizeOnce(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	text := norm.NFC.String(ExtractText(raw))
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// ExtractText returns the readable text of an HTML fragment with every
// text node separated by a space. Whitespace is left as is.
func ExtractText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		// the html tokenizer only fails on reader errors
		return fragment
	}

	var parts []string
	for _, n := range doc.Nodes {
		collect(n, &parts)
	}
	return strings.Join(parts, " ")
}

func collect(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		*parts = append(*parts, n.Data)
		return
	case html.ElementNode:
		if skipped[n.Data] {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, parts)
	}
}
