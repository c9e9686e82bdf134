// Package readability implements woocrawl.ContentExtractor using
// go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/woocrawl"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements woocrawl.ContentExtractor at compile time.
var _ woocrawl.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	// PageURL resolves relative links in the extracted content. Optional.
	PageURL *url.URL
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*woocrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), e.PageURL)
	if err != nil {
		return nil, err
	}

	return &woocrawl.ExtractResult{
		Title:       woocrawl.SingleLine(article.Title),
		ContentHTML: strings.TrimSpace(article.Content),
		Description: woocrawl.SingleLine(article.Excerpt),
		PublishedAt: article.PublishedTime,
	}, nil
}
