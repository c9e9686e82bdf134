package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/woocrawl"
	main "github.com/fwojciec/woocrawl/cmd/woocrawl"
	"github.com/fwojciec/woocrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints counters and progress", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		var since time.Time
		deps, stdout, _ := newDeps(t)
		deps.Now = func() time.Time { return now }
		deps.Documents = &mock.DocumentService{
			DocumentStatsFn: func(_ context.Context, s time.Time) (*woocrawl.DocumentStats, error) {
				since = s
				return &woocrawl.DocumentStats{Total: 200, Processed: 50, Unprocessed: 150, Errored: 3, Recent: 7}, nil
			},
		}

		cmd := &main.StatsCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, now.Add(-10*time.Minute), since)
		out := stdout.String()
		assert.Contains(t, out, "Unprocessed")
		assert.Contains(t, out, "150")
		assert.Contains(t, out, "25.0%")
	})
}

func TestMonitorCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports until every document is processed", func(t *testing.T) {
		t.Parallel()

		calls := 0
		deps, stdout, _ := newDeps(t)
		deps.Documents = &mock.DocumentService{
			DocumentStatsFn: func(context.Context, time.Time) (*woocrawl.DocumentStats, error) {
				calls++
				if calls == 1 {
					return &woocrawl.DocumentStats{Total: 2, Processed: 1, Unprocessed: 1}, nil
				}
				return &woocrawl.DocumentStats{Total: 2, Processed: 2}, nil
			},
		}

		cmd := &main.MonitorCmd{Interval: time.Millisecond}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Contains(t, stdout.String(), "All documents processed.")
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		deps, _, _ := newDeps(t)
		deps.Ctx = ctx
		deps.Documents = &mock.DocumentService{
			DocumentStatsFn: func(context.Context, time.Time) (*woocrawl.DocumentStats, error) {
				cancel()
				return &woocrawl.DocumentStats{Total: 1, Unprocessed: 1}, nil
			},
		}

		cmd := &main.MonitorCmd{Interval: time.Hour}

		err := cmd.Run(deps)

		require.NoError(t, err)
	})
}
