package crawl_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
	"github.com/fwojciec/woocrawl/memory"
	"github.com/fwojciec/woocrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://open.overheid.nl"

// linksFrom treats every line of a page as a detail link.
func linksFrom(html, _ string) ([]string, error) {
	var out []string
	for _, line := range strings.Split(html, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

func TestSearchPageURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://open.overheid.nl/zoeken?zoeken=&pagina=3", crawl.SearchPageURL(base+"/", 3))
}

func TestCollector_CollectSearch(t *testing.T) {
	t.Parallel()

	t.Run("walks pages until a page has no links", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{FetchFn: pages(map[string]string{
			crawl.SearchPageURL(base, 1): base + "/details/a\n" + base + "/details/b",
			crawl.SearchPageURL(base, 2): base + "/details/b\n" + base + "/details/c",
			crawl.SearchPageURL(base, 3): "",
			crawl.SearchPageURL(base, 4): base + "/details/never",
		})}
		known := map[string]bool{base + "/details/a": true}
		var discovered []string
		docs := &mock.DocumentService{
			DiscoverDocumentFn: func(_ context.Context, sourceURL string) (bool, error) {
				discovered = append(discovered, sourceURL)
				created := !known[sourceURL]
				known[sourceURL] = true
				return created, nil
			},
		}

		c := &crawl.Collector{
			Fetcher:     fetcher,
			Documents:   docs,
			Cache:       memory.NewCache(0),
			DetailLinks: linksFrom,
			BaseURL:     base,
			RetryDelays: []time.Duration{},
		}

		stats, err := c.CollectSearch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{base + "/details/a", base + "/details/b", base + "/details/c"}, discovered)
		assert.Equal(t, 4, stats.Processed)
		assert.Equal(t, 2, stats.Created)
		assert.Equal(t, 2, stats.Skipped)
	})

	t.Run("stops at max pages", func(t *testing.T) {
		t.Parallel()

		fetched := 0
		fetcher := &mock.Fetcher{FetchFn: func(_ context.Context, url string) (*woocrawl.Response, error) {
			fetched++
			return &woocrawl.Response{URL: url, Status: 200, Body: []byte(url)}, nil
		}}
		docs := &mock.DocumentService{
			DiscoverDocumentFn: func(context.Context, string) (bool, error) { return true, nil },
		}

		c := &crawl.Collector{Fetcher: fetcher, Documents: docs, DetailLinks: linksFrom, BaseURL: base, MaxPages: 2, RetryDelays: []time.Duration{}}

		stats, err := c.CollectSearch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, fetched)
		assert.Equal(t, 2, stats.Created)
	})

	t.Run("stops on fetch failure", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{FetchFn: pages(map[string]string{})}
		c := &crawl.Collector{Fetcher: fetcher, Documents: &mock.DocumentService{}, DetailLinks: linksFrom, BaseURL: base, RetryDelays: []time.Duration{}}

		stats, err := c.CollectSearch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, stats.Errors)
		assert.Zero(t, stats.Processed)
	})

	t.Run("waits on the limiter before every search page", func(t *testing.T) {
		t.Parallel()

		var hosts []string
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				hosts = append(hosts, domain)
				return nil
			},
		}
		fetcher := &mock.Fetcher{FetchFn: pages(map[string]string{
			crawl.SearchPageURL(base, 1): base + "/details/a",
			crawl.SearchPageURL(base, 2): "",
		})}
		docs := &mock.DocumentService{
			DiscoverDocumentFn: func(context.Context, string) (bool, error) { return true, nil },
		}
		c := &crawl.Collector{Fetcher: fetcher, Documents: docs, Limiter: limiter, DetailLinks: linksFrom, BaseURL: base, RetryDelays: []time.Duration{}}

		_, err := c.CollectSearch(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"open.overheid.nl", "open.overheid.nl"}, hosts)
	})

	t.Run("returns the limiter error", func(t *testing.T) {
		t.Parallel()

		limiter := &mock.DomainLimiter{
			WaitFn: func(context.Context, string) error { return context.DeadlineExceeded },
		}
		c := &crawl.Collector{Fetcher: &mock.Fetcher{}, Documents: &mock.DocumentService{}, Limiter: limiter, DetailLinks: linksFrom, BaseURL: base}

		_, err := c.CollectSearch(context.Background())

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("returns when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := &crawl.Collector{Fetcher: &mock.Fetcher{}, Documents: &mock.DocumentService{}, DetailLinks: linksFrom, BaseURL: base}

		_, err := c.CollectSearch(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("finishes the current page when canceled during its fetch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var fetched []string
		fetcher := &mock.Fetcher{FetchFn: func(fctx context.Context, url string) (*woocrawl.Response, error) {
			fetched = append(fetched, url)
			cancel()
			if err := fctx.Err(); err != nil {
				return nil, err
			}
			return &woocrawl.Response{URL: url, Status: 200, Body: []byte(base + "/details/a\n" + base + "/details/b")}, nil
		}}
		var discovered []string
		docs := &mock.DocumentService{
			DiscoverDocumentFn: func(dctx context.Context, sourceURL string) (bool, error) {
				require.NoError(t, dctx.Err())
				discovered = append(discovered, sourceURL)
				return true, nil
			},
		}
		c := &crawl.Collector{Fetcher: fetcher, Documents: docs, DetailLinks: linksFrom, BaseURL: base, RetryDelays: []time.Duration{}}

		stats, err := c.CollectSearch(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{crawl.SearchPageURL(base, 1)}, fetched)
		assert.Equal(t, []string{base + "/details/a", base + "/details/b"}, discovered)
		assert.Equal(t, 2, stats.Created)
	})
}

func TestCollector_CollectSitemap(t *testing.T) {
	t.Parallel()

	sitemaps := &mock.SitemapService{
		DiscoverURLsFn: func(_ context.Context, baseURL string, filter *woocrawl.URLFilter) ([]string, error) {
			assert.Equal(t, base, baseURL)
			var out []string
			for _, u := range []string{base + "/details/a", base + "/over", base + "/details/b"} {
				if filter.Match(u) {
					out = append(out, u)
				}
			}
			return out, nil
		},
	}
	var discovered []string
	docs := &mock.DocumentService{
		DiscoverDocumentFn: func(_ context.Context, sourceURL string) (bool, error) {
			discovered = append(discovered, sourceURL)
			return true, nil
		},
	}

	c := &crawl.Collector{Documents: docs, Sitemaps: sitemaps, BaseURL: base}

	stats, err := c.CollectSitemap(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{base + "/details/a", base + "/details/b"}, discovered)
	assert.Equal(t, 2, stats.Created)
}

func TestCollector_CollectAPI(t *testing.T) {
	t.Parallel()

	t.Run("same source url twice is stored once with later metadata merged", func(t *testing.T) {
		t.Parallel()

		normalizer := &mock.APINormalizer{
			NormalizeAPIResponseFn: func([]byte) ([]woocrawl.DocumentDescriptor, woocrawl.NormalizeStats, error) {
				return []woocrawl.DocumentDescriptor{
					{Title: "Besluit op Woo-verzoek", URL: base + "/details/x", PID: "x-1"},
					{Title: "Besluit", URL: base + "/details/x", PID: "x-2", DocumentType: "besluit"},
				}, woocrawl.NormalizeStats{Items: 3, Emitted: 2, Dropped: 1}, nil
			},
		}
		var stored []*woocrawl.Document
		docs := &mock.DocumentService{
			UpsertDocumentFn: func(_ context.Context, doc *woocrawl.Document) (bool, error) {
				stored = append(stored, doc)
				return true, nil
			},
		}

		c := &crawl.Collector{Documents: docs, Normalizer: normalizer, Logger: discard()}

		stats, err := c.CollectAPI(context.Background(), []byte(`{}`))

		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, base+"/details/x", stored[0].SourceURL)
		assert.Equal(t, "Besluit", stored[0].Title)
		assert.Equal(t, "besluit", stored[0].DocumentType)
		assert.Equal(t, "x-2", stored[0].Metadata["pid"])
		assert.Equal(t, 1, stats.Created)
		assert.Equal(t, 1, stats.Skipped)
		assert.Equal(t, 1, stats.Dropped)
	})

	t.Run("returns normalizer errors", func(t *testing.T) {
		t.Parallel()

		normalizer := &mock.APINormalizer{
			NormalizeAPIResponseFn: func([]byte) ([]woocrawl.DocumentDescriptor, woocrawl.NormalizeStats, error) {
				return nil, woocrawl.NormalizeStats{}, woocrawl.Errorf(woocrawl.EINVALID, "invalid JSON")
			},
		}

		c := &crawl.Collector{Documents: &mock.DocumentService{}, Normalizer: normalizer}

		_, err := c.CollectAPI(context.Background(), []byte(`{`))

		assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
	})

	t.Run("counts store errors and continues", func(t *testing.T) {
		t.Parallel()

		normalizer := &mock.APINormalizer{
			NormalizeAPIResponseFn: func([]byte) ([]woocrawl.DocumentDescriptor, woocrawl.NormalizeStats, error) {
				return []woocrawl.DocumentDescriptor{
					{Title: "A", URL: base + "/details/a"},
					{Title: "B", URL: base + "/details/b"},
				}, woocrawl.NormalizeStats{Items: 2, Emitted: 2}, nil
			},
		}
		docs := &mock.DocumentService{
			UpsertDocumentFn: func(_ context.Context, doc *woocrawl.Document) (bool, error) {
				if doc.Title == "A" {
					return false, woocrawl.Errorf(woocrawl.EINTERNAL, "disk I/O error")
				}
				return false, nil
			},
		}

		c := &crawl.Collector{Documents: docs, Normalizer: normalizer}

		stats, err := c.CollectAPI(context.Background(), []byte(`{}`))

		require.NoError(t, err)
		assert.Equal(t, 1, stats.Errors)
		assert.Equal(t, 1, stats.Updated)
	})
}
