package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/woocrawl"
)

// Ensure FileStore implements woocrawl.FileStore at compile time.
var _ woocrawl.FileStore = (*FileStore)(nil)

// FileStore keeps downloaded document files in one directory. Files are
// written to a temporary file first and renamed into place, so a crash
// never leaves a partial download under the final name.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// SaveFile stores data under name and returns the path and xxhash of the
// content.
func (s *FileStore) SaveFile(ctx context.Context, name string, data []byte) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	path, err := s.path(name)
	if err != nil {
		return "", "", err
	}
	if err := writeAtomic(path, data); err != nil {
		return "", "", err
	}
	return path, hashBytes(data), nil
}

// HasFile reports whether name exists and its content hashes to hash.
func (s *FileStore) HasFile(name, hash string) bool {
	if hash == "" {
		return false
	}
	path, err := s.path(name)
	if err != nil {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return hashBytes(data) == hash
}

// path maps a file name into the store directory. Names are flattened to
// their base so a name can never escape the directory.
func (s *FileStore) path(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == "" || base == ".." {
		return "", woocrawl.Errorf(woocrawl.EINVALID, "invalid file name %q", name)
	}
	return filepath.Join(s.dir, base), nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func hashBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
