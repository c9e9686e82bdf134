package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
)

// Run executes the collect command.
func (c *CollectCmd) Run(deps *Dependencies) error {
	collector := &crawl.Collector{
		Fetcher:     deps.Fetcher,
		Documents:   deps.Documents,
		Sitemaps:    deps.Sitemaps,
		Normalizer:  deps.Normalizer,
		Limiter:     deps.Limiter,
		Cache:       deps.Cache,
		Logger:      deps.Logger,
		Progress:    progressPrinter(deps.Stderr),
		DetailLinks: deps.DetailLinks,
		BaseURL:     deps.Config.OpenBaseURL,
		MaxPages:    c.MaxPages,
	}

	var stats woocrawl.BatchStats
	var err error
	switch c.Source {
	case "sitemap":
		stats, err = collector.CollectSitemap(deps.Ctx)
	case "api":
		if c.File == "" {
			err = woocrawl.Errorf(woocrawl.EINVALID, "--file is required for --source=api")
			break
		}
		var body []byte
		if body, err = os.ReadFile(c.File); err != nil {
			break
		}
		stats, err = collector.CollectAPI(deps.Ctx, body)
	default:
		stats, err = collector.CollectSearch(deps.Ctx)
	}

	printBatchStats(deps.Stdout, "collect "+c.Source, stats)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}
	return nil
}
