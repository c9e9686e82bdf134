package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/crawl"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// printBatchStats renders the counters of one run as a table.
func printBatchStats(w io.Writer, title string, s woocrawl.BatchStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Processed", "Created", "Updated", "Skipped", "Dropped", "Errors"})
	t.AppendRow(table.Row{s.Processed, s.Created, s.Updated, s.Skipped, s.Dropped, s.Errors})
	t.Render()
}

// printDocumentStats renders crawl progress as a two-column table.
func printDocumentStats(w io.Writer, s *woocrawl.DocumentStats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.AppendRows([]table.Row{
		{"Total", s.Total},
		{"Processed", s.Processed},
		{"Unprocessed", s.Unprocessed},
		{"Errored", s.Errored},
		{"Last 10 min", s.Recent},
	})
	t.AppendFooter(table.Row{"Progress", fmt.Sprintf("%.1f%%", s.Progress())})
	t.Render()
}

// progressPrinter writes one line per finished item. Events without a
// total are shown with a running count only.
func progressPrinter(w io.Writer) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(w, "Processing %d items\n", e.Total)
		case crawl.ProgressCompleted, crawl.ProgressSkipped, crawl.ProgressFailed:
			if e.URL == "" {
				return
			}
			prefix := fmt.Sprintf("[%d]", e.Completed)
			if e.Total > 0 {
				prefix = fmt.Sprintf("[%d/%d]", e.Completed, e.Total)
			}
			line := crawl.TruncateURL(e.URL, 80)
			if e.Error != nil {
				line += " (" + woocrawl.ErrorMessage(e.Error) + ")"
			}
			fmt.Fprintf(w, "%s %s\n", prefix, line)
		}
	}
}
