package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/woocrawl"
	"github.com/fwojciec/woocrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure FileStore implements woocrawl.FileStore at compile time.
var _ woocrawl.FileStore = (*fs.FileStore)(nil)

func TestFileStore_SaveFile(t *testing.T) {
	t.Parallel()

	t.Run("writes file and returns path and hash", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewFileStore(dir)

		path, hash, err := store.SaveFile(context.Background(), "besluit.pdf", []byte("%PDF-1.7"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "besluit.pdf"), path)
		assert.Len(t, hash, 16)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7", string(data))
	})

	t.Run("same content gives same hash", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir())

		_, first, err := store.SaveFile(context.Background(), "a.pdf", []byte("inhoud"))
		require.NoError(t, err)
		_, second, err := store.SaveFile(context.Background(), "b.pdf", []byte("inhoud"))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("flattens names into the store directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewFileStore(dir)

		path, _, err := store.SaveFile(context.Background(), "../../etc/besluit.pdf", []byte("x"))

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "besluit.pdf"), path)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir())

		_, _, err := store.SaveFile(context.Background(), "  ", []byte("x"))

		require.Error(t, err)
		assert.Equal(t, woocrawl.EINVALID, woocrawl.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		store := fs.NewFileStore(t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := store.SaveFile(ctx, "a.pdf", []byte("x"))

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("leaves no temporary files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := fs.NewFileStore(dir)

		_, _, err := store.SaveFile(context.Background(), "a.pdf", []byte("x"))
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "a.pdf", entries[0].Name())
	})
}

func TestFileStore_HasFile(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(t.TempDir())
	_, hash, err := store.SaveFile(context.Background(), "besluit.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)

	t.Run("true for matching hash", func(t *testing.T) {
		t.Parallel()
		assert.True(t, store.HasFile("besluit.pdf", hash))
	})

	t.Run("false for different hash", func(t *testing.T) {
		t.Parallel()
		assert.False(t, store.HasFile("besluit.pdf", "0000000000000000"))
	})

	t.Run("false for missing file", func(t *testing.T) {
		t.Parallel()
		assert.False(t, store.HasFile("ontbreekt.pdf", hash))
	})

	t.Run("false for empty hash", func(t *testing.T) {
		t.Parallel()
		assert.False(t, store.HasFile("besluit.pdf", ""))
	})
}
