package main

import (
	"fmt"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
)

// Run executes the process command.
func (c *ProcessCmd) Run(deps *Dependencies) error {
	processor := &crawl.Processor{
		Fetcher:    deps.Fetcher,
		Documents:  deps.Documents,
		Detector:   deps.Detector,
		Metadata:   deps.Metadata,
		Detail:     deps.Detail,
		Classifier: deps.Classifier,
		Converter:  deps.Converter,
		Files:      deps.Files,
		Summarizer: deps.Summarizer,
		Limiter:    deps.Limiter,
		Logger:     deps.Logger,
		Progress:   progressPrinter(deps.Stderr),
		Now:        deps.now,
	}

	var stats woocrawl.BatchStats
	var err error
	if c.URL != "" {
		stats, err = processor.ProcessURL(deps.Ctx, c.URL)
	} else {
		stats, err = processor.ProcessPending(deps.Ctx, c.Limit)
	}

	printBatchStats(deps.Stdout, "process", stats)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}
	return nil
}
