package objectstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clearway/pkg/sentinel"
)

// Filesystem stores objects as files under a root directory. It backs
// single-node deployments that keep case records on disk instead of in
// Postgres or a bucket.
type Filesystem struct {
	root string
}

// NewFilesystem creates a filesystem object store rooted at dir, creating
// the directory if needed.
func NewFilesystem(dir string) (*Filesystem, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Filesystem{root: dir}, nil
}

// PutObject writes data to the file named by key, overwriting any prior
// object. The content type is not persisted; keys carry their format.
func (f *Filesystem) PutObject(_ context.Context, key, _ string, data []byte) error {
	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetObject reads the object stored under key.
func (f *Filesystem) GetObject(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, sentinel.ErrNotFound
	}
	return data, err
}

// ListObjects returns the sorted keys under prefix.
func (f *Filesystem) ListObjects(_ context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		key := filepath.ToSlash(strings.TrimPrefix(path, f.root+string(filepath.Separator)))
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *Filesystem) path(key string) string {
	return filepath.Join(f.root, filepath.FromSlash(key))
}

var _ ObjectStore = (*Filesystem)(nil)
