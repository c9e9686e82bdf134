package woocrawl

import (
	"context"
	"regexp"
	"slices"
)

// SitemapService discovers document URLs from portal sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the URLs listed in the sitemaps of baseURL that
	// pass filter. Sitemaps named in robots.txt are preferred over
	// /sitemap.xml and sitemap indexes are followed.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// DetailURLFilter keeps document detail pages only.
func DetailURLFilter() *URLFilter {
	return &URLFilter{
		Include: []*regexp.Regexp{regexp.MustCompile(`/details/[^/?#]+`)},
	}
}

// URLFilter selects URLs by pattern. Exclude wins over Include.
type URLFilter struct {
	// Include, when set, keeps only URLs matching one of the patterns.
	Include []*regexp.Regexp

	// Exclude drops URLs matching any pattern.
	Exclude []*regexp.Regexp
}

// Match reports whether url passes the filter. A nil filter passes
// everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}
