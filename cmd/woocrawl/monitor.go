package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/woocrawl"
)

// Run executes the monitor command. It reports every interval and returns
// once no unprocessed documents remain or the context is cancelled.
func (c *MonitorCmd) Run(deps *Dependencies) error {
	interval := c.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		stats, err := deps.Documents.DocumentStats(deps.Ctx, deps.now().Add(-recentWindow))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, deps.now().Format(time.DateTime))
		printDocumentStats(deps.Stdout, stats)
		if stats.Unprocessed == 0 {
			fmt.Fprintln(deps.Stdout, "All documents processed.")
			return nil
		}

		select {
		case <-deps.Ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
