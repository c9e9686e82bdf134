// Package trafilatura implements woocrawl.ContentExtractor on top of
// go-trafilatura. It is the primary extractor for document pages; the
// readability package is the fallback.
package trafilatura

import (
	"bytes"
	"strings"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements woocrawl.ContentExtractor at compile time.
var _ woocrawl.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	// Fallback is used when trafilatura finds no content node.
	Fallback woocrawl.ContentExtractor
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content together with the
// description, date and tags from the page metadata.
func (e *Extractor) Extract(rawHTML string) (*woocrawl.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		if e.Fallback != nil {
			return e.Fallback.Extract(rawHTML)
		}
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}
	if contentHTML == "" && e.Fallback != nil {
		return e.Fallback.Extract(rawHTML)
	}

	out := &woocrawl.ExtractResult{
		Title:       woocrawl.SingleLine(result.Metadata.Title),
		ContentHTML: contentHTML,
		Description: woocrawl.SingleLine(result.Metadata.Description),
		Tags:        woocrawl.UniqueStrings(append(result.Metadata.Categories, result.Metadata.Tags...)),
	}
	if !result.Metadata.Date.IsZero() {
		date := result.Metadata.Date.In(time.UTC)
		out.PublishedAt = &date
	}
	return out, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
