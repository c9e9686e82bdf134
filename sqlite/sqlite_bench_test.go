package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkDiscoverAndUpsert simulates a collection run followed by a
// processing run: discovering many URLs, then upserting their metadata.
func BenchmarkDiscoverAndUpsert(b *testing.B) {
	const docsPerRun = 100

	for i := 0; i < b.N; i++ {
		b.StopTimer()

		db := sqlite.NewDB(filepath.Join(b.TempDir(), fmt.Sprintf("bench%d.db", i)))
		require.NoError(b, db.Open())
		svc := sqlite.NewDocumentService(db)
		ctx := context.Background()

		b.StartTimer()

		for j := 0; j < docsPerRun; j++ {
			if _, err := svc.DiscoverDocument(ctx, fmt.Sprintf("https://open.overheid.nl/details/ronl-%d", j)); err != nil {
				b.Fatal(err)
			}
		}
		for j := 0; j < docsPerRun; j++ {
			doc := &woocrawl.Document{
				SourceURL: fmt.Sprintf("https://open.overheid.nl/details/ronl-%d", j),
				Title:     fmt.Sprintf("Besluit %d", j),
				Keywords:  []string{"woo", "besluit"},
				Metadata:  map[string]any{"pid": fmt.Sprintf("ronl-%d", j)},
			}
			if _, err := svc.UpsertDocument(ctx, doc); err != nil {
				b.Fatal(err)
			}
		}

		b.StopTimer()
		db.Close()
	}
}
