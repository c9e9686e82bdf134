package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.PageDetector = (*Detector)(nil)

// Detector identifies portal page kinds from HTML content.
// It checks for section anchors, search forms, result listings and
// document metadata that are specific to each page kind.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the page kind.
// Returns PageUnknown if the page cannot be recognised.
func (d *Detector) Detect(html string) woocrawl.PageKind {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return woocrawl.PageUnknown
	}

	// Organization detail pages carry the organisatiegegevens section.
	if d.hasSelector(doc, "#organisatiegegevens") || d.hasHeading(doc, "organisatiegegevens") {
		return woocrawl.PageOrganization
	}

	// Search pages list several detail links below a search form.
	if d.hasSelector(doc, "input[name='zoeken'], form[role='search'], [role='search']") &&
		doc.Find("a[href*='/details/']").Length() > 1 {
		return woocrawl.PageSearch
	}

	// Document pages declare Dublin Core metadata or embed the document.
	if metaContent(doc, "DC.identifier", "DCTERMS.identifier", "DC.type", "DCTERMS.type") != "" ||
		d.hasSelector(doc, "[data-document-type]") ||
		hasPDFMarkup(doc) {
		return woocrawl.PageDocument
	}

	return woocrawl.PageUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasHeading checks for a heading whose normalized text equals key.
func (d *Detector) hasHeading(doc *goquery.Document, key string) bool {
	found := false
	doc.Find(headingSelector).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		found = woocrawl.NormalizeKey(nodeText(h)) == key
		return !found
	})
	return found
}
