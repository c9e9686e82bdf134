package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/woocrawl"
)

// SelectorConfig defines a CSS selector with its priority and source label.
type SelectorConfig struct {
	Selector string
	Priority woocrawl.LinkPriority
	Source   string

	// Pattern, if set, must match the path of the resolved URL.
	Pattern *regexp.Regexp
}

// ExtractLinksWithConfigs extracts links from HTML using the provided selector configurations.
// Links are deduplicated by URL, keeping the highest priority version.
// External links (different host than baseURL) are filtered out.
// The returned links maintain document order based on first occurrence.
func ExtractLinksWithConfigs(html string, baseURL string, configs []SelectorConfig) ([]woocrawl.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	return extractLinks(doc, base, configs), nil
}

func extractLinks(doc *goquery.Document, base *url.URL, configs []SelectorConfig) []woocrawl.DiscoveredLink {
	seen := make(map[string]int)
	var links []woocrawl.DiscoveredLink

	for _, config := range configs {
		doc.Find(config.Selector).Each(func(_ int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if !exists || href == "" || isNonHTTPLink(href) {
				return
			}

			resolved := resolveURL(base, href)
			if resolved == "" || !isSameHost(base, resolved) {
				return
			}
			if config.Pattern != nil {
				u, err := url.Parse(resolved)
				if err != nil || !config.Pattern.MatchString(u.Path) {
					return
				}
			}

			link := woocrawl.DiscoveredLink{
				URL:      resolved,
				Priority: config.Priority,
				Text:     nodeText(sel),
				Source:   config.Source,
			}

			if idx, ok := seen[resolved]; ok {
				if config.Priority > links[idx].Priority {
					links[idx] = link
				}
			} else {
				seen[resolved] = len(links)
				links = append(links, link)
			}
		})
	}

	return links
}

// ExtractDetailLinks returns the document detail URLs linked from a search
// results page, resolved against baseURL, in page order and without
// duplicates.
func ExtractDetailLinks(html string, baseURL string) ([]string, error) {
	links, err := ExtractLinksWithConfigs(html, baseURL, []SelectorConfig{
		{Selector: "a[href*='/details/']", Priority: woocrawl.PriorityIndex, Source: "search"},
	})
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(links))
	for _, l := range links {
		urls = append(urls, l.URL)
	}
	return urls, nil
}

var (
	// organizationPathRe matches organization detail pages, e.g. /12345/Gemeente_Utrecht.
	organizationPathRe = regexp.MustCompile(`^/\d+/[^/]+/?$`)

	// categoryPathRe matches category listings, e.g. /Gemeenten/.
	categoryPathRe = regexp.MustCompile(`^/[A-Z][A-Za-z_]+/?$`)
)

// DefaultIndexConfigs returns the selectors used to walk the organization
// index: category listings and pagination.
func DefaultIndexConfigs() []SelectorConfig {
	return []SelectorConfig{
		{Selector: "a[href]", Priority: woocrawl.PriorityCategory, Source: "category", Pattern: categoryPathRe},
		{Selector: "a[rel='next'], .pagination a[href], a[href*='pagina=']", Priority: woocrawl.PriorityPagination, Source: "pagination"},
	}
}

// ExtractOrganizationIndex reads organization links and further index
// pages from an organization index page. On a category listing the
// category is the page heading.
func ExtractOrganizationIndex(html string, pageURL string) (*woocrawl.OrganizationIndex, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, woocrawl.Errorf(woocrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	var category string
	if categoryPathRe.MatchString(base.Path) {
		category = nodeText(doc.Find("h1").First())
	}

	idx := &woocrawl.OrganizationIndex{}
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) || seen[resolved] {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil || !organizationPathRe.MatchString(u.Path) {
			return
		}
		name := woocrawl.SingleLine(nodeText(a))
		if name == "" {
			return
		}
		seen[resolved] = true
		idx.Organizations = append(idx.Organizations, woocrawl.OrganizationLink{
			Name:     name,
			URL:      resolved,
			Category: category,
		})
	})

	idx.Links = extractLinks(doc, base, DefaultIndexConfigs())
	return idx, nil
}
