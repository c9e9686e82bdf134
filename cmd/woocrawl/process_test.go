package main_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/woocrawl"
	main "github.com/fwojciec/woocrawl/cmd/woocrawl"
	"github.com/fwojciec/woocrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("queries unprocessed documents up to the limit", func(t *testing.T) {
		t.Parallel()

		var got woocrawl.DocumentFilter
		deps, stdout, stderr := newDeps(t)
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(_ context.Context, filter woocrawl.DocumentFilter) ([]*woocrawl.Document, error) {
				got = filter
				return nil, nil
			},
		}

		cmd := &main.ProcessCmd{Limit: 25}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.IsProcessed)
		assert.False(t, *got.IsProcessed)
		assert.Equal(t, 25, got.Limit)
		assert.Contains(t, stdout.String(), "Processed")
		assert.Contains(t, stderr.String(), "Processing 0 items")
	})

	t.Run("reports store errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps(t)
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(context.Context, woocrawl.DocumentFilter) ([]*woocrawl.Document, error) {
				return nil, errors.New("database is locked")
			},
		}

		cmd := &main.ProcessCmd{}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("records an unknown URL before processing it", func(t *testing.T) {
		t.Parallel()

		var discovered string
		deps, _, _ := newDeps(t)
		deps.Documents = &mock.DocumentService{
			DiscoverDocumentFn: func(_ context.Context, sourceURL string) (bool, error) {
				discovered = sourceURL
				return true, nil
			},
			FindDocumentBySourceURLFn: func(context.Context, string) (*woocrawl.Document, error) {
				return nil, woocrawl.Errorf(woocrawl.ENOTFOUND, "document not found")
			},
		}

		cmd := &main.ProcessCmd{URL: "https://open.overheid.nl/details/ronl-1"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, "https://open.overheid.nl/details/ronl-1", discovered)
	})
}
