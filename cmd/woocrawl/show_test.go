package main_test

import (
	"context"
	"testing"

	"github.com/fwojciec/woocrawl"
	main "github.com/fwojciec/woocrawl/cmd/woocrawl"
	"github.com/fwojciec/woocrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	doc := &woocrawl.Document{
		ID:           "doc-1",
		SourceURL:    "https://open.overheid.nl/details/ronl-1",
		Title:        "Besluit op Woo-verzoek",
		DocumentType: "besluit",
		File:         woocrawl.DocumentFile{Name: "besluit.pdf", LocalPath: "/data/besluit.pdf", Size: 2048},
	}

	t.Run("looks up IDs", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(t)
		deps.Documents = &mock.DocumentService{
			FindDocumentByIDFn: func(_ context.Context, id string) (*woocrawl.Document, error) {
				assert.Equal(t, "doc-1", id)
				return doc, nil
			},
		}

		err := (&main.ShowCmd{Target: "doc-1"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "# Besluit op Woo-verzoek")
		assert.Contains(t, stdout.String(), "Downloaded: /data/besluit.pdf (2.0 KB)")
	})

	t.Run("looks up URLs by source URL", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps(t)
		deps.Documents = &mock.DocumentService{
			FindDocumentBySourceURLFn: func(_ context.Context, sourceURL string) (*woocrawl.Document, error) {
				assert.Equal(t, doc.SourceURL, sourceURL)
				return doc, nil
			},
		}

		err := (&main.ShowCmd{Target: doc.SourceURL}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Type: besluit")
	})

	t.Run("reports unknown documents", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t)
		deps.Documents = &mock.DocumentService{
			FindDocumentByIDFn: func(context.Context, string) (*woocrawl.Document, error) {
				return nil, woocrawl.Errorf(woocrawl.ENOTFOUND, "document not found")
			},
		}

		err := (&main.ShowCmd{Target: "missing"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, woocrawl.ENOTFOUND, woocrawl.ErrorCode(err))
		assert.Equal(t, "error: document not found\n", stderr.String())
	})
}
