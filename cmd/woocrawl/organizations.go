package main

import (
	"fmt"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
)

// Run executes the organizations command. The index walk runs before the
// detail pass so new organizations get their details in the same run.
func (c *OrganizationsCmd) Run(deps *Dependencies) error {
	if c.IndexOnly && c.DetailsOnly {
		err := woocrawl.Errorf(woocrawl.EINVALID, "--index-only and --details-only are mutually exclusive")
		fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}

	crawler := &crawl.OrganizationCrawler{
		Fetcher:       deps.Fetcher,
		Organizations: deps.Organizations,
		Extractor:     deps.OrgExtractor,
		Limiter:       deps.Limiter,
		Cache:         deps.Cache,
		Logger:        deps.Logger,
		Progress:      progressPrinter(deps.Stderr),
		MaxPages:      c.MaxPages,
	}

	if !c.DetailsOnly {
		seeds := c.Seeds
		if len(seeds) == 0 {
			seeds = []string{deps.Config.OrganizationsBaseURL}
		}
		stats, err := crawler.CrawlIndex(deps.Ctx, seeds)
		printBatchStats(deps.Stdout, "organization index", stats)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
			return err
		}
	}

	if !c.IndexOnly {
		stats, err := crawler.CrawlDetails(deps.Ctx, c.Limit, c.Force)
		printBatchStats(deps.Stdout, "organization details", stats)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
			return err
		}
	}
	return nil
}
