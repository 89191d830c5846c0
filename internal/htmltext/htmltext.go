// Package htmltext extracts the pieces of an article's HTML the
// pipeline needs: the headline and the readable plain text.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Title returns the text of the first <h1> heading, trimmed.
// Returns "" when the document has no <h1>.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// Text strips all markup and returns the document's plain text with
// normalized whitespace. Script and style bodies are dropped.
func Text(html string) string {
	trimmed := strings.TrimSpace(html)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "<") {
		return normalizeWhitespace(trimmed)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return normalizeWhitespace(trimmed)
	}

	doc.Find("script, style").Remove()
	return normalizeWhitespace(doc.Text())
}

// normalizeWhitespace collapses all runs of whitespace to single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
