package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/woocrawl"
)

// recentWindow is how far back processing counts as recent.
const recentWindow = 10 * time.Minute

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Documents.DocumentStats(deps.Ctx, deps.now().Add(-recentWindow))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}
	printDocumentStats(deps.Stdout, stats)
	return nil
}
