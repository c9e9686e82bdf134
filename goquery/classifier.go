package goquery

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/woocrawl"
)

var _ woocrawl.Classifier = (*Classifier)(nil)

// Category is a government document category recognised in headings.
type Category struct {
	Name     string
	Patterns []*regexp.Regexp
}

func category(name string, terms ...string) Category {
	c := Category{Name: name}
	for _, t := range terms {
		c.Patterns = append(c.Patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(t)))
	}
	return c
}

// DefaultCategories returns the document category vocabulary. More
// specific categories come first.
func DefaultCategories() []Category {
	return []Category{
		category("Woo-besluit", "woo-besluit", "wob-besluit", "besluit op uw woo-verzoek", "besluit op woo-verzoek", "besluit op uw wob-verzoek"),
		category("Woo-verzoek", "woo-verzoek", "wob-verzoek"),
		category("Kamervraag", "kamervraag", "kamervragen", "antwoord op vragen"),
		category("Kamerbrief", "kamerbrief"),
		category("Wetsvoorstel", "wetsvoorstel", "memorie van toelichting"),
		category("Beleidsnota", "beleidsnota", "beleidsnotitie", "beleidsregel"),
		category("Convenant", "convenant"),
		category("Jaarverslag", "jaarverslag", "jaarplan"),
		category("Vergaderstuk", "agenda", "vergaderstuk", "besluitenlijst", "notulen"),
		category("Onderzoeksrapport", "onderzoeksrapport"),
		category("Besluit", "besluit"),
		category("Rapport", "rapport"),
		category("Advies", "advies"),
		category("Brief", "brief"),
	}
}

var extRe = regexp.MustCompile(`^[a-z0-9]{2,5}$`)

// Classifier infers document types with an ordered fallback chain. The
// first step that matches wins: URL extension, explicit type marker,
// category keyword in a heading, PDF markup, structured data markup and
// finally content sniffing. UNKNOWN is returned when nothing matches.
type Classifier struct {
	Categories []Category
}

// NewClassifier creates a Classifier with the default categories.
func NewClassifier() *Classifier {
	return &Classifier{Categories: DefaultCategories()}
}

// Classify returns the document type for content served from rawURL.
func (c *Classifier) Classify(rawURL, content string) string {
	if ext := urlExtension(rawURL); ext != "" {
		return ext
	}

	trimmed := strings.TrimSpace(content)
	if looksLikeMarkup(trimmed) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err == nil {
			if t := c.marker(doc); t != "" {
				return t
			}
			if t := c.headingCategory(doc); t != "" {
				return t
			}
			if hasPDFMarkup(doc) {
				return woocrawl.DocumentTypePDF
			}
			if hasStructuredData(doc) {
				return woocrawl.DocumentTypeStructuredHTML
			}
		}
	}

	return sniff(trimmed)
}

// urlExtension returns the uppercased file extension of the URL path.
func urlExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
	if !extRe.MatchString(ext) || strings.Trim(ext, "0123456789") == "" {
		return ""
	}
	return strings.ToUpper(ext)
}

// looksLikeMarkup reports whether DOM based steps can apply. XML and JSON
// payloads go straight to sniffing.
func looksLikeMarkup(s string) bool {
	if strings.HasPrefix(s, "<?xml") || strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return false
	}
	return strings.Contains(s, "<")
}

func (c *Classifier) marker(doc *goquery.Document) string {
	if t := metaContent(doc, "DC.type", "dcterms.type", "document-type", "DCTERMS.type"); t != "" {
		return t
	}
	if t, ok := doc.Find("[data-document-type]").First().Attr("data-document-type"); ok {
		if t = woocrawl.SingleLine(t); t != "" {
			return t
		}
	}
	return ""
}

func (c *Classifier) headingCategory(doc *goquery.Document) string {
	var found string
	doc.Find("h1, h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := nodeText(h)
		for _, cat := range c.Categories {
			for _, re := range cat.Patterns {
				if re.MatchString(text) {
					found = cat.Name
					return false
				}
			}
		}
		return true
	})
	return found
}

func hasPDFMarkup(doc *goquery.Document) bool {
	if doc.Find(`embed[type="application/pdf"], object[type="application/pdf"]`).Length() > 0 {
		return true
	}

	embedded := false
	doc.Find("embed[src], object[data], iframe[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := s.AttrOr("src", s.AttrOr("data", ""))
		if isPDFHref(src) {
			embedded = true
			return false
		}
		return true
	})
	if embedded {
		return true
	}

	// PDF links dominate the page's links.
	total, pdfs := 0, 0
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		total++
		if isPDFHref(href) {
			pdfs++
		}
	})
	return pdfs > 0 && pdfs*2 >= total
}

func isPDFHref(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

func hasStructuredData(doc *goquery.Document) bool {
	return doc.Find(`script[type="application/ld+json"], [itemscope]`).Length() > 0
}

// sniff classifies content by its leading bytes.
func sniff(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "<?xml"):
		return woocrawl.DocumentTypeXML
	case strings.HasPrefix(lower, "<!doctype html"), strings.HasPrefix(lower, "<html"),
		strings.Contains(lower, "<html"), strings.Contains(lower, "<body"):
		return woocrawl.DocumentTypeHTML
	case strings.HasPrefix(s, "{"), strings.HasPrefix(s, "["):
		return woocrawl.DocumentTypeJSON
	}
	return woocrawl.DocumentTypeUnknown
}
