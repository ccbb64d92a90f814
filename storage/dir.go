package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir serves objects from a local directory, one subdirectory per bucket.
// An empty bucket reads directly from Root. Used for local development.
type Dir struct {
	Root string
}

var _ Fetcher = Dir{}

func (d Dir) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(filepath.Join(d.Root, bucket))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
		}
		return nil, err
	}
	defer func() { _ = root.Close() }()

	data, err := root.ReadFile(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
		}
		return nil, fmt.Errorf("reading %s/%s: %w", bucket, key, err)
	}
	return data, nil
}
