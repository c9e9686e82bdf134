package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/woocrawl"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Run executes the normalize command. It prints the descriptors found in
// an API response without storing them.
func (c *NormalizeCmd) Run(deps *Dependencies) error {
	body, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	descriptors, stats, err := deps.Normalizer.NormalizeAPIResponse(body)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(descriptors)
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Title", "Type", "Published", "URL"})
	for _, d := range descriptors {
		published := ""
		if d.PublicationDate != nil {
			published = d.PublicationDate.Format("2006-01-02")
		}
		t.AppendRow(table.Row{text.Trim(d.Title, 60), d.DocumentType, published, d.URL})
	}
	t.Render()
	fmt.Fprintf(deps.Stdout, "items=%d emitted=%d dropped=%d\n", stats.Items, stats.Emitted, stats.Dropped)
	return nil
}
