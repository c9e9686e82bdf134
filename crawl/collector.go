// Package crawl coordinates the crawl and processing phases. It walks
// portal listings, stores discovered records with upsert semantics and
// processes documents one at a time with a fixed delay between requests.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/woocrawl"
)

// DefaultMaxSearchPages bounds the search walk when no limit is configured.
const DefaultMaxSearchPages = 1000

// documentCacheKeyPrefix namespaces known document URLs in the cache.
const documentCacheKeyPrefix = "doc:"

// Collector discovers document URLs and records them in the discovered
// state. It never touches processing state of existing documents.
type Collector struct {
	Fetcher    woocrawl.Fetcher
	Documents  woocrawl.DocumentService
	Sitemaps   woocrawl.SitemapService
	Normalizer woocrawl.APINormalizer
	Limiter    woocrawl.DomainLimiter
	Cache      woocrawl.Cache
	Logger     *slog.Logger
	Progress   ProgressFunc

	// DetailLinks extracts document detail URLs from a search page.
	DetailLinks func(html, baseURL string) ([]string, error)

	BaseURL     string
	MaxPages    int
	RetryDelays []time.Duration
}

// SearchPageURL returns the URL of a search result page.
func SearchPageURL(baseURL string, page int) string {
	return fmt.Sprintf("%s/zoeken?zoeken=&pagina=%d", strings.TrimRight(baseURL, "/"), page)
}

// CollectSearch walks the search result pages starting at page 1 and
// records every detail link. The walk stops at the first page without
// links, at the first page that cannot be fetched or at MaxPages. A page
// is one item: once fetched, all of its links are recorded before
// cancellation is observed.
func (c *Collector) CollectSearch(ctx context.Context) (woocrawl.BatchStats, error) {
	var stats woocrawl.BatchStats
	logger := discardLogger(c.Logger)

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxSearchPages
	}

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		pageURL := SearchPageURL(c.BaseURL, page)
		item := context.WithoutCancel(ctx)
		if err := waitFor(item, c.Limiter, pageURL); err != nil {
			return stats, err
		}
		resp, err := c.fetch(item, pageURL, logger)
		if err != nil {
			logger.Warn("search page fetch failed", "url", pageURL, "err", err)
			stats.Errors++
			break
		}

		links, err := c.DetailLinks(string(resp.Body), c.BaseURL)
		if err != nil {
			logger.Warn("search page parse failed", "url", pageURL, "err", err)
			stats.Errors++
			break
		}
		if len(links) == 0 {
			logger.Debug("search exhausted", "page", page)
			break
		}

		for _, link := range links {
			c.discover(item, link, &stats, logger)
		}
		c.Progress.emit(ProgressEvent{Type: ProgressCompleted, Completed: page, Total: maxPages, URL: pageURL})
	}

	return stats, ctx.Err()
}

// CollectSitemap records the document detail URLs listed in the site's
// sitemaps.
func (c *Collector) CollectSitemap(ctx context.Context) (woocrawl.BatchStats, error) {
	var stats woocrawl.BatchStats
	logger := discardLogger(c.Logger)

	urls, err := c.Sitemaps.DiscoverURLs(ctx, c.BaseURL, woocrawl.DetailURLFilter())
	if err != nil {
		return stats, fmt.Errorf("sitemap discovery: %w", err)
	}

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		c.discover(context.WithoutCancel(ctx), u, &stats, logger)
	}
	return stats, ctx.Err()
}

// CollectAPI normalizes a search API response and upserts the documents it
// lists. Entries sharing a source URL are merged into the first one.
func (c *Collector) CollectAPI(ctx context.Context, body []byte) (woocrawl.BatchStats, error) {
	var stats woocrawl.BatchStats
	logger := discardLogger(c.Logger)

	descriptors, nstats, err := c.Normalizer.NormalizeAPIResponse(body)
	if err != nil {
		return stats, err
	}
	stats.Dropped += nstats.Dropped
	if nstats.Dropped > 0 {
		logger.Info("dropped incomplete entries", "count", nstats.Dropped)
	}

	docs := make([]*woocrawl.Document, 0, len(descriptors))
	for _, d := range descriptors {
		docs = append(docs, d.Document())
	}
	docs, dups := DedupDocuments(docs)
	for _, d := range dups {
		logger.Info("skip duplicate", "url", d.SourceURL)
		stats.Skipped++
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Processed++
		if err := Upsert(context.WithoutCancel(ctx), doc, c.Documents.UpsertDocument, &stats, logger); err != nil {
			logger.Error("upsert document", "url", doc.SourceURL, "err", err)
			continue
		}
		c.remember(doc.SourceURL)
	}
	return stats, ctx.Err()
}

// discover records one URL unless it is already known.
func (c *Collector) discover(ctx context.Context, rawURL string, stats *woocrawl.BatchStats, logger *slog.Logger) {
	stats.Processed++
	if c.known(rawURL) {
		stats.Skipped++
		return
	}
	created, err := c.Documents.DiscoverDocument(ctx, rawURL)
	if err != nil {
		logger.Error("discover document", "url", rawURL, "err", err)
		stats.Errors++
		return
	}
	if created {
		stats.Created++
	} else {
		stats.Skipped++
	}
	c.remember(rawURL)
}

func (c *Collector) known(rawURL string) bool {
	if c.Cache == nil {
		return false
	}
	_, ok := c.Cache.Get(documentCacheKeyPrefix + rawURL)
	return ok
}

func (c *Collector) remember(rawURL string) {
	if c.Cache != nil {
		c.Cache.Set(documentCacheKeyPrefix+rawURL, true)
	}
}

func (c *Collector) fetch(ctx context.Context, rawURL string, logger *slog.Logger) (*woocrawl.Response, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, rawURL, c.Fetcher.Fetch, logger, delays)
}
