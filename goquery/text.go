package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/woocrawl"
	"golang.org/x/net/html"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

var sourceSpaceRe = regexp.MustCompile(`\s+`)

// blockElements end a line when rendered as text.
var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true, "dt": true, "dd": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"address": true, "section": true, "article": true, "table": true,
	"ul": true, "ol": true, "dl": true, "blockquote": true,
}

// nodeText renders the text of a selection the way a browser lays it out:
// source whitespace collapses to spaces, while <br> and block elements
// break lines. The result is passed through woocrawl.CleanText.
func nodeText(sel *goquery.Selection) string {
	var b strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(sourceSpaceRe.ReplaceAllString(n.Data, " "))
			return
		case html.ElementNode:
			switch n.Data {
			case "br":
				b.WriteByte('\n')
				return
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			b.WriteByte('\n')
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}
	return woocrawl.CleanText(b.String())
}

// findAll matches selector against the selection itself and its
// descendants. Sections located by heading are sibling ranges, so the
// top-level nodes must be matched too.
func findAll(sel *goquery.Selection, selector string) *goquery.Selection {
	return sel.Filter(selector).AddSelection(sel.Find(selector))
}

// metaContent returns the content of the first meta tag whose name or
// property matches one of names, compared case-insensitively.
func metaContent(doc *goquery.Document, names ...string) string {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(n)] = true
	}

	var found string
	doc.Find("meta[content]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		key := s.AttrOr("name", s.AttrOr("property", ""))
		if !want[strings.ToLower(key)] {
			return true
		}
		if v := woocrawl.SingleLine(s.AttrOr("content", "")); v != "" {
			found = v
			return false
		}
		return true
	})
	return found
}

// toLink converts an anchor into a Link resolved against base.
func toLink(base *url.URL, a *goquery.Selection) (woocrawl.Link, bool) {
	href := strings.TrimSpace(a.AttrOr("href", ""))
	if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return woocrawl.Link{}, false
	}

	link := woocrawl.Link{Text: nodeText(a), URL: href}
	ref, err := url.Parse(href)
	if err != nil {
		return link, true
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	link.URL = ref.String()
	link.IsExternal = ref.Host != "" && (base == nil || ref.Host != base.Host)
	return link, true
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// is self-referential (same as base URL after stripping fragment).
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// This uses exact host matching - subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
