package main

import (
	"fmt"

	"github.com/fwojciec/woocrawl"
)

// exportPageSize is the number of documents read per query.
const exportPageSize = 100

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	processed := true
	written := 0
	for offset := 0; ; offset += exportPageSize {
		docs, err := deps.Documents.FindDocuments(deps.Ctx, woocrawl.DocumentFilter{
			IsProcessed: &processed,
			Offset:      offset,
			Limit:       exportPageSize,
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", woocrawl.ErrorMessage(err))
			return err
		}

		for _, doc := range docs {
			if c.Limit > 0 && written >= c.Limit {
				break
			}
			if err := deps.Ctx.Err(); err != nil {
				return err
			}
			if err := deps.Writer.WriteDocument(deps.Ctx, doc); err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s: %s\n", doc.SourceURL, woocrawl.ErrorMessage(err))
				return err
			}
			written++
		}
		if len(docs) < exportPageSize || (c.Limit > 0 && written >= c.Limit) {
			break
		}
	}

	fmt.Fprintf(deps.Stdout, "Exported %d documents to %s\n", written, c.Dir)
	return nil
}
