package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
)

// Run executes the pid-import command.
func (c *PidImportCmd) Run(deps *Dependencies) error {
	body, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	tree, dropped, err := deps.PidParser.ParsePidTree(body)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}

	importer := &crawl.PidImporter{Pids: deps.Pids, Logger: deps.Logger}
	stats, err := importer.Import(deps.Ctx, tree)
	stats.Dropped += dropped

	printBatchStats(deps.Stdout, "pid import", stats)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}
	return nil
}
