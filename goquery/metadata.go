package goquery

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/woocrawl"
	"github.com/tidwall/gjson"
)

var _ woocrawl.MetadataExtractor = (*MetadataExtractor)(nil)

// Extraction methods recorded in document metadata.
const (
	MethodHTML     = "html"
	MethodHTMLMain = "html+main_content"
)

var (
	ecliRe      = regexp.MustCompile(`\bECLI:[A-Z]{2}:[A-Z0-9]+:\d{4}:[A-Z0-9.]+`)
	kamerstukRe = regexp.MustCompile(`(?i)\bkamerstuk(?:ken)?(?:\s+I{1,2})?\s+(\d{5}(?:-[A-Z0-9]+)?)\s*,?\s*nr\.?\s*(\d+)`)
	kenmerkRe   = regexp.MustCompile(`(?i)\b(?:ons\s+kenmerk|uw\s+kenmerk|kenmerk|zaaknummer)\s*:?\s+([A-Z0-9][A-Za-z0-9\-/.]{3,}[A-Za-z0-9])`)
	lawRe       = regexp.MustCompile(`\b(Wet open overheid|Wet openbaarheid van bestuur|Algemene wet bestuursrecht|Woo|Wob|Awb|[A-Z][a-z]+wet(?: \d{4})?)\b`)
)

// lawAliases maps abbreviations to the law they name.
var lawAliases = map[string]string{
	"Woo": "Wet open overheid",
	"Wob": "Wet openbaarheid van bestuur",
	"Awb": "Algemene wet bestuursrecht",
}

// MetadataExtractor extracts document metadata from document pages.
// Page metadata (Dublin Core, Open Graph, JSON-LD) is preferred; the
// optional collaborators fill in what the page does not declare.
type MetadataExtractor struct {
	// Content extracts the main content. Optional.
	Content woocrawl.ContentExtractor

	// Language detects the language when the page does not declare it. Optional.
	Language woocrawl.LanguageDetector

	// Dates parses publication dates. Optional; without it only RFC 3339
	// and plain ISO dates are understood.
	Dates woocrawl.DateParser

	// Classifier decides the document type when no explicit marker exists.
	Classifier woocrawl.Classifier
}

// NewMetadataExtractor creates a MetadataExtractor with the default
// classifier.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{Classifier: NewClassifier()}
}

// ExtractDocumentMetadata extracts the metadata of the document page at
// pageURL.
func (e *MetadataExtractor) ExtractDocumentMetadata(html, pageURL string) (*woocrawl.DocumentMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	var main *woocrawl.ExtractResult
	if e.Content != nil {
		if res, err := e.Content.Extract(html); err == nil {
			main = res
		}
	}
	if main == nil {
		main = &woocrawl.ExtractResult{}
	}

	jsonLD := jsonLDBlocks(doc)
	meta := &woocrawl.DocumentMetadata{
		Metadata: map[string]any{
			"extraction_method": MethodHTML,
			"meta":              metaTags(doc),
		},
	}
	if len(jsonLD) > 0 {
		meta.Metadata["json_ld"] = jsonLD
	}
	if main.ContentHTML != "" {
		meta.Metadata["extraction_method"] = MethodHTMLMain
	}

	meta.Title = firstNonEmpty(
		metaContent(doc, "DC.title", "DCTERMS.title", "og:title"),
		jsonLDString(jsonLD, "headline", "name"),
		nodeText(doc.Find("h1").First()),
		main.Title,
		nodeText(doc.Find("title").First()),
	)

	meta.Summary = firstNonEmpty(
		metaContent(doc, "description", "og:description", "DC.description", "DCTERMS.description"),
		jsonLDString(jsonLD, "description"),
		main.Description,
	)

	meta.PublicationDate = e.publicationDate(doc, jsonLD, main)

	meta.Keywords = e.keywords(doc, jsonLD, main)

	text := bodyText(doc)
	meta.Entities = entities(doc, meta.Title+"\n"+meta.Summary+"\n"+text)
	meta.CaseReferences = caseReferences(meta.Title + "\n" + text)

	meta.Language = e.language(doc, meta.Title+"\n"+meta.Summary+"\n"+text)

	if e.Classifier != nil {
		meta.DocumentType = e.Classifier.Classify(pageURL, html)
	}

	meta.ContentHTML = main.ContentHTML
	if meta.ContentHTML == "" {
		if sel := doc.Find("main, article").First(); sel.Length() > 0 {
			meta.ContentHTML, _ = goquery.OuterHtml(sel)
		}
	}

	meta.File = attachedFile(doc, pageURL)

	return meta, nil
}

func (e *MetadataExtractor) publicationDate(doc *goquery.Document, jsonLD []any, main *woocrawl.ExtractResult) *time.Time {
	candidates := []string{
		metaContent(doc, "DC.date", "DCTERMS.issued", "DCTERMS.available", "DC.date.issued", "article:published_time", "datePublished"),
		jsonLDString(jsonLD, "datePublished", "dateCreated"),
		doc.Find("time[datetime]").First().AttrOr("datetime", ""),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, ok := e.parseDate(c); ok {
			return &t
		}
	}
	return main.PublishedAt
}

func (e *MetadataExtractor) parseDate(s string) (time.Time, bool) {
	if e.Dates != nil {
		t, err := e.Dates.ParseDate(s)
		return t, err == nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (e *MetadataExtractor) keywords(doc *goquery.Document, jsonLD []any, main *woocrawl.ExtractResult) []string {
	var out []string
	for _, raw := range []string{
		metaContent(doc, "keywords"),
		metaContent(doc, "DC.subject", "DCTERMS.subject"),
		jsonLDString(jsonLD, "keywords"),
	} {
		for _, kw := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
			out = append(out, woocrawl.SingleLine(kw))
		}
	}
	doc.Find(`meta[property="article:tag"]`).Each(func(_ int, s *goquery.Selection) {
		out = append(out, woocrawl.SingleLine(s.AttrOr("content", "")))
	})
	out = append(out, main.Tags...)
	return woocrawl.UniqueStrings(out)
}

func (e *MetadataExtractor) language(doc *goquery.Document, text string) string {
	declared := firstNonEmpty(
		doc.Find("html").AttrOr("lang", ""),
		metaContent(doc, "DC.language", "DCTERMS.language", "content-language"),
	)
	if declared != "" {
		code, _, _ := strings.Cut(strings.ToLower(declared), "-")
		return code
	}
	if e.Language != nil {
		if code, ok := e.Language.DetectLanguage(text); ok {
			return code
		}
	}
	return ""
}

// entities collects organizations declared as creator or publisher and
// laws mentioned in text.
func entities(doc *goquery.Document, text string) []woocrawl.Entity {
	var out []woocrawl.Entity
	for _, names := range [][]string{
		{"DC.creator", "DCTERMS.creator", "creator"},
		{"DC.publisher", "DCTERMS.publisher", "publisher"},
	} {
		if org := metaContent(doc, names...); org != "" {
			out = append(out, woocrawl.Entity{Type: woocrawl.EntityOrganization, Name: org})
		}
	}

	seen := make(map[string]bool)
	for _, m := range lawRe.FindAllString(text, -1) {
		name := m
		if full, ok := lawAliases[m]; ok {
			name = full
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, woocrawl.Entity{Type: woocrawl.EntityLaw, Name: name})
	}

	uniq := make([]woocrawl.Entity, 0, len(out))
	dup := make(map[woocrawl.Entity]bool)
	for _, e := range out {
		if !dup[e] {
			dup[e] = true
			uniq = append(uniq, e)
		}
	}
	return uniq
}

// caseReferences finds ECLI numbers, parliamentary paper numbers and
// case reference numbers.
func caseReferences(text string) []string {
	var refs []string
	refs = append(refs, ecliRe.FindAllString(text, -1)...)
	for _, m := range kamerstukRe.FindAllStringSubmatch(text, -1) {
		refs = append(refs, "Kamerstuk "+m[1]+" nr. "+m[2])
	}
	for _, m := range kenmerkRe.FindAllStringSubmatch(text, -1) {
		if strings.ContainsAny(m[1], "0123456789") {
			refs = append(refs, m[1])
		}
	}
	return woocrawl.UniqueStrings(refs)
}

// attachedFile describes the first PDF the page links to.
func attachedFile(doc *goquery.Document, pageURL string) woocrawl.DocumentFile {
	base, _ := url.Parse(pageURL)

	var file woocrawl.DocumentFile
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := a.AttrOr("href", "")
		if !isPDFHref(href) {
			return true
		}
		link, ok := toLink(base, a)
		if !ok {
			return true
		}
		u, err := url.Parse(link.URL)
		if err != nil {
			return true
		}
		file = woocrawl.DocumentFile{
			Name:        path.Base(u.Path),
			MimeType:    "application/pdf",
			DownloadURL: link.URL,
		}
		return false
	})
	return file
}

func metaTags(doc *goquery.Document) map[string]any {
	tags := make(map[string]any)
	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		key := s.AttrOr("name", s.AttrOr("property", ""))
		if key == "" {
			return
		}
		if _, ok := tags[key]; ok {
			return
		}
		if v := woocrawl.SingleLine(s.AttrOr("content", "")); v != "" {
			tags[key] = v
		}
	})
	return tags
}

// jsonLDBlocks returns the valid JSON-LD blocks of the page.
func jsonLDBlocks(doc *goquery.Document) []any {
	var blocks []any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if !gjson.Valid(raw) {
			return
		}
		blocks = append(blocks, gjson.Parse(raw).Value())
	})
	return blocks
}

// jsonLDString returns the first string found under one of keys in the
// JSON-LD blocks. Arrays of strings are joined with commas.
func jsonLDString(blocks []any, keys ...string) string {
	for _, b := range blocks {
		obj, ok := b.(map[string]any)
		if !ok {
			continue
		}
		for _, k := range keys {
			switch v := obj[k].(type) {
			case string:
				if s := woocrawl.SingleLine(v); s != "" {
					return s
				}
			case []any:
				var parts []string
				for _, item := range v {
					if s, ok := item.(string); ok {
						parts = append(parts, s)
					}
				}
				if len(parts) > 0 {
					return strings.Join(parts, ",")
				}
			}
		}
	}
	return ""
}

func bodyText(doc *goquery.Document) string {
	if sel := doc.Find("main, article").First(); sel.Length() > 0 {
		return nodeText(sel)
	}
	return nodeText(doc.Find("body"))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
