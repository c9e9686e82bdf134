//go:build integration && !windows

package rod_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processAlive uses signal 0, which checks for the process without
// delivering anything.
func processAlive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestFetcher_Close(t *testing.T) {
	t.Parallel()

	t.Run("kills the launcher process", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)

		pid := fetcher.LauncherPID()
		require.NotZero(t, pid)
		require.True(t, processAlive(pid))

		require.NoError(t, fetcher.Close())
		time.Sleep(100 * time.Millisecond)

		assert.False(t, processAlive(pid))
	})

	t.Run("rejects fetches after close", func(t *testing.T) {
		t.Parallel()

		fetcher, err := rod.NewFetcher()
		require.NoError(t, err)
		require.NoError(t, fetcher.Close())
		require.NoError(t, fetcher.Close())

		_, err = fetcher.Fetch(context.Background(), "https://open.overheid.nl")

		require.Error(t, err)
		assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
	})
}
