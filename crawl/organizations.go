package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/woocrawl"
)

// Frontier configuration for the organization index walk.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
	// DefaultMaxIndexPages limits the index walk to prevent runaway crawls.
	DefaultMaxIndexPages = 1000
)

// organizationCacheKeyPrefix namespaces organization IDs by slug in the
// cache.
const organizationCacheKeyPrefix = "org:"

// OrganizationCrawler walks the organization portal. CrawlIndex records
// the organizations listed on the index pages; CrawlDetails fetches each
// organization's detail page and replaces its owned collections. Cache
// maps slugs to stored IDs: the index walk fills it and the details pass
// reads it to link parent relations.
type OrganizationCrawler struct {
	Fetcher       woocrawl.Fetcher
	Organizations woocrawl.OrganizationService
	Extractor     woocrawl.OrganizationExtractor
	Limiter       woocrawl.DomainLimiter
	Cache         woocrawl.Cache
	Logger        *slog.Logger
	Progress      ProgressFunc

	MaxPages    int
	RetryDelays []time.Duration
}

// CrawlIndex walks the index pages reachable from seeds, highest priority
// first, and upserts every organization found. Organizations sharing a
// slug within one run are stored once, first wins. Cancellation is checked
// between pages; a started page is fetched and all of its organizations
// are stored.
func (c *OrganizationCrawler) CrawlIndex(ctx context.Context, seeds []string) (woocrawl.BatchStats, error) {
	var stats woocrawl.BatchStats
	logger := discardLogger(c.Logger)

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxIndexPages
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	for _, seed := range seeds {
		frontier.Push(woocrawl.DiscoveredLink{URL: seed, Priority: woocrawl.PriorityIndex, Source: "index"})
	}

	seen := make(map[string]bool)
	pages := 0
	for {
		link, ok := frontier.Pop()
		if !ok {
			break
		}
		if pages >= maxPages {
			logger.Warn("index page limit reached", "limit", maxPages)
			break
		}
		pages++

		if err := ctx.Err(); err != nil {
			return stats, err
		}
		item := context.WithoutCancel(ctx)
		if err := waitFor(item, c.Limiter, link.URL); err != nil {
			return stats, err
		}

		resp, err := c.fetch(item, link.URL, logger)
		if err != nil {
			logger.Warn("index page fetch failed", "url", link.URL, "err", err)
			stats.Errors++
			continue
		}
		idx, err := c.Extractor.ExtractOrganizationIndex(string(resp.Body), link.URL)
		if err != nil {
			logger.Warn("index page parse failed", "url", link.URL, "err", err)
			stats.Errors++
			continue
		}

		for _, next := range idx.Links {
			frontier.Push(next)
		}

		for _, ol := range idx.Organizations {
			org := woocrawl.NewOrganization(ol.Name, ol.URL, ol.Category)
			stats.Processed++
			if out := c.admit(org, seen); out.Skipped() {
				logger.Debug("skip organization", "name", org.Name, "reason", out.Skip)
				stats.Skipped++
				continue
			}
			if err := Upsert(item, org, c.Organizations.UpsertOrganization, &stats, logger); err != nil {
				logger.Error("upsert organization", "name", org.Name, "err", err)
				continue
			}
			if c.Cache != nil {
				c.Cache.Set(organizationCacheKeyPrefix+org.Slug, org.ID)
			}
		}
		c.Progress.emit(ProgressEvent{Type: ProgressCompleted, Completed: pages, Total: pages + frontier.Len(), URL: link.URL})
	}

	return stats, ctx.Err()
}

// admit decides whether an organization found on an index page is stored.
func (c *OrganizationCrawler) admit(org *woocrawl.Organization, seen map[string]bool) woocrawl.Outcome[*woocrawl.Organization] {
	if err := org.Validate(); err != nil {
		return woocrawl.Skip[*woocrawl.Organization](woocrawl.SkipIncomplete, woocrawl.ErrorMessage(err))
	}
	if seen[org.Slug] {
		return woocrawl.Skip[*woocrawl.Organization](woocrawl.SkipDuplicate, org.Slug)
	}
	seen[org.Slug] = true
	return woocrawl.Keep(org)
}

// CrawlDetails processes the detail pages of up to limit organizations.
// Without force only organizations whose details were not processed yet
// are visited. Each organization's details are stored in one transaction
// and a started organization is completed even when ctx is canceled.
func (c *OrganizationCrawler) CrawlDetails(ctx context.Context, limit int, force bool) (woocrawl.BatchStats, error) {
	var stats woocrawl.BatchStats
	logger := discardLogger(c.Logger)

	filter := woocrawl.OrganizationFilter{Limit: limit}
	if !force {
		pending := false
		filter.DetailsProcessed = &pending
	}
	orgs, err := c.Organizations.FindOrganizations(ctx, filter)
	if err != nil {
		return stats, fmt.Errorf("find organizations: %w", err)
	}

	for i, org := range orgs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Processed++
		if err := c.crawlDetail(context.WithoutCancel(ctx), org, logger); err != nil {
			logger.Error("organization details", "name", org.Name, "url", org.URL, "err", err)
			stats.Errors++
			continue
		}
		stats.Updated++
		c.Progress.emit(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: len(orgs), URL: org.URL})
	}
	return stats, ctx.Err()
}

func (c *OrganizationCrawler) crawlDetail(ctx context.Context, org *woocrawl.Organization, logger *slog.Logger) error {
	if org.URL == "" {
		return woocrawl.Errorf(woocrawl.EINVALID, "organization %q has no URL", org.Slug)
	}
	if err := waitFor(ctx, c.Limiter, org.URL); err != nil {
		return err
	}
	resp, err := c.fetch(ctx, org.URL, logger)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	details, err := c.extractDetails(string(resp.Body))
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	c.linkParents(ctx, details.Relations, logger)
	if err := c.Organizations.ReplaceChildren(ctx, org.ID, details); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// linkParents sets the organization ID of every parent relation naming a
// stored organization. Unknown parents stay unlinked.
func (c *OrganizationCrawler) linkParents(ctx context.Context, rels []woocrawl.Relation, logger *slog.Logger) {
	for i := range rels {
		if rels[i].Type != woocrawl.RelationParent {
			continue
		}
		slug := woocrawl.Slugify(rels[i].Name)
		if slug == "" {
			continue
		}
		id, err := c.organizationID(ctx, slug)
		if err != nil {
			if woocrawl.ErrorCode(err) != woocrawl.ENOTFOUND {
				logger.Warn("resolve parent organization", "slug", slug, "err", err)
			}
			continue
		}
		rels[i].OrganizationID = id
	}
}

// organizationID returns the ID of the organization with slug, reading
// through the cache. Misses are not cached.
func (c *OrganizationCrawler) organizationID(ctx context.Context, slug string) (string, error) {
	key := organizationCacheKeyPrefix + slug
	if c.Cache != nil {
		if v, ok := c.Cache.Get(key); ok {
			if id, ok := v.(string); ok {
				return id, nil
			}
		}
	}
	org, err := c.Organizations.FindOrganizationBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if c.Cache != nil {
		c.Cache.Set(key, org.ID)
	}
	return org.ID, nil
}

func (c *OrganizationCrawler) extractDetails(html string) (details *woocrawl.OrganizationDetails, err error) {
	defer func() {
		if r := recover(); r != nil {
			details, err = nil, woocrawl.Errorf(woocrawl.EINTERNAL, "extractor panic: %v", r)
		}
	}()
	return c.Extractor.ExtractOrganizationDetails(html)
}

func (c *OrganizationCrawler) fetch(ctx context.Context, rawURL string, logger *slog.Logger) (*woocrawl.Response, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, rawURL, c.Fetcher.Fetch, logger, delays)
}
