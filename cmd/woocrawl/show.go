package main

import (
	"fmt"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
)

// Run executes the show command. URLs are looked up by source URL, other
// targets by ID.
func (c *ShowCmd) Run(deps *Dependencies) error {
	var doc *woocrawl.Document
	var err error
	if isURL(c.Target) {
		doc, err = deps.Documents.FindDocumentBySourceURL(deps.Ctx, c.Target)
	} else {
		doc, err = deps.Documents.FindDocumentByID(deps.Ctx, c.Target)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, woocrawl.FormatDocument(doc))
	if doc.File.LocalPath != "" {
		fmt.Fprintf(deps.Stdout, "\nDownloaded: %s (%s)\n", doc.File.LocalPath, crawl.FormatBytes(doc.File.Size))
	}
	return nil
}
