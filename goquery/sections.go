package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/woocrawl"
)

// addressAnchors locate address blocks that some detail pages render as
// their own labeled sections instead of contactgegevens rows.
var addressAnchors = []woocrawl.SectionAnchor{
	{Key: string(woocrawl.AddressBezoekadres), Anchor: "bezoekadres"},
	{Key: string(woocrawl.AddressPostadres), Anchor: "postadres"},
}

var _ woocrawl.OrganizationExtractor = (*SectionExtractor)(nil)

// SectionExtractor extracts the named sections of organization detail pages.
type SectionExtractor struct {
	// Anchors is the ordered section set to extract.
	Anchors []woocrawl.SectionAnchor

	base *url.URL
}

// NewSectionExtractor creates a SectionExtractor resolving relative links
// against baseURL. A nil anchors slice selects the default section set.
func NewSectionExtractor(baseURL string, anchors []woocrawl.SectionAnchor) (*SectionExtractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "invalid base URL: %v", err)
	}
	if anchors == nil {
		anchors = woocrawl.DefaultSectionAnchors()
	}
	return &SectionExtractor{Anchors: anchors, base: base}, nil
}

// ExtractOrganizationDetails parses an organization detail page into its
// sections, addresses and relations. Every configured section key is
// present in the result; sections missing from the page are empty.
func (e *SectionExtractor) ExtractOrganizationDetails(html string) (*woocrawl.OrganizationDetails, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	sections := e.ExtractSections(doc, e.Anchors)

	var extra woocrawl.Sections
	for _, s := range e.ExtractSections(doc, addressAnchors) {
		if !s.IsEmpty() {
			extra = append(extra, s)
		}
	}

	all := append(append(woocrawl.Sections{}, sections...), extra...)

	return &woocrawl.OrganizationDetails{
		Name:      nodeText(doc.Find("h1").First()),
		Sections:  sections,
		Addresses: woocrawl.ExtractAddresses(all),
		Relations: woocrawl.ExtractRelations(sections),
	}, nil
}

// ExtractOrganizationIndex reads an organization index page.
func (e *SectionExtractor) ExtractOrganizationIndex(html, pageURL string) (*woocrawl.OrganizationIndex, error) {
	return ExtractOrganizationIndex(html, pageURL)
}

// ExtractSections extracts one section per anchor, in anchor order.
// A section that cannot be located is returned empty.
func (e *SectionExtractor) ExtractSections(doc *goquery.Document, anchors []woocrawl.SectionAnchor) woocrawl.Sections {
	sections := make(woocrawl.Sections, 0, len(anchors))
	for _, a := range anchors {
		scope, title := e.locate(doc, a.Anchor)
		if scope == nil || scope.Length() == 0 {
			sections = append(sections, woocrawl.Section{Key: a.Key})
			continue
		}
		s := e.extract(scope)
		s.Key = a.Key
		s.Title = title
		sections = append(sections, s)
	}
	return sections
}

// locate finds the content of the section for anchor. An element with the
// anchor as id wins; otherwise a heading reading as the title-cased anchor.
func (e *SectionExtractor) locate(doc *goquery.Document, anchor string) (*goquery.Selection, string) {
	if anchor == "" {
		return nil, ""
	}

	if el := doc.Find(`[id="` + anchor + `"]`).First(); el.Length() > 0 {
		if el.Is(headingSelector) {
			return headingScope(el), nodeText(el)
		}
		return el, nodeText(el.Find(headingSelector).First())
	}

	want := woocrawl.NormalizeKey(woocrawl.KebabToTitle(anchor))
	var heading *goquery.Selection
	doc.Find(headingSelector).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if woocrawl.NormalizeKey(nodeText(h)) == want {
			heading = h
			return false
		}
		return true
	})
	if heading == nil {
		return nil, ""
	}
	return headingScope(heading), nodeText(heading)
}

// headingScope returns the content belonging to a heading: its parent
// container when the heading is that container's only heading, otherwise
// the siblings up to the next heading.
func headingScope(h *goquery.Selection) *goquery.Selection {
	parent := h.Parent()
	if !parent.Is("body, html, main") && parent.Find(headingSelector).Length() == 1 {
		return parent
	}
	return h.NextUntil(headingSelector)
}

// extract reads the primary content of a located section. Table rows win
// over paragraphs, paragraphs over list items. Links outside tables are
// collected regardless of the kind.
func (e *SectionExtractor) extract(scope *goquery.Selection) woocrawl.Section {
	var s woocrawl.Section

	s.Table = e.tableEntries(scope)
	switch {
	case len(s.Table) > 0:
		s.Kind = woocrawl.SectionTableData
	default:
		s.Paragraphs = texts(findAll(scope, "p"))
		if len(s.Paragraphs) > 0 {
			s.Kind = woocrawl.SectionTextBlock
			break
		}
		s.Items = texts(findAll(scope, "li"))
		if len(s.Items) > 0 {
			s.Kind = woocrawl.SectionListItems
		}
	}

	findAll(scope, "a[href]").Each(func(_ int, a *goquery.Selection) {
		if a.Closest("table, dl").Length() > 0 {
			return
		}
		if link, ok := toLink(e.base, a); ok {
			s.Links = append(s.Links, link)
		}
	})

	if s.Kind == woocrawl.SectionEmpty && len(s.Links) > 0 {
		s.Kind = woocrawl.SectionLinksOnly
	}
	return s
}

// tableEntries reads th/td rows and dt/dd pairs. Keys are normalized and
// the first row for a key wins.
func (e *SectionExtractor) tableEntries(scope *goquery.Selection) []woocrawl.TableEntry {
	var entries []woocrawl.TableEntry
	seen := make(map[string]bool)

	add := func(label, cell *goquery.Selection) {
		key := woocrawl.NormalizeKey(nodeText(label))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, woocrawl.TableEntry{Key: key, Value: e.cellValue(cell)})
	}

	findAll(scope, "tr").Each(func(_ int, row *goquery.Selection) {
		th := row.Find("th").First()
		td := row.Find("td").First()
		if th.Length() > 0 && td.Length() > 0 {
			add(th, td)
		}
	})

	findAll(scope, "dt").Each(func(_ int, dt *goquery.Selection) {
		if dd := dt.NextFiltered("dd"); dd.Length() > 0 {
			add(dt, dd)
		}
	})

	return entries
}

// cellValue returns plain text for a cell without links and linked text
// otherwise.
func (e *SectionExtractor) cellValue(cell *goquery.Selection) woocrawl.Value {
	var links []woocrawl.Link
	cell.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if link, ok := toLink(e.base, a); ok {
			links = append(links, link)
		}
	})
	return woocrawl.LinkedText(nodeText(cell), links)
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := nodeText(s); t != "" {
			out = append(out, t)
		}
	})
	return out
}
