// Package filesystem provides a local directory blob store for filekeep.
// Blobs are written atomically through a temp file and rename, and every
// operation is confined to the root directory by os.Root.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/google/uuid"
	"github.com/sagarc03/filekeep"
)

// Store keeps blobs as files below a root directory. Storage keys map to
// relative paths, so "{owner}/{id}_{name}" lands in a per-owner directory.
type Store struct {
	root *os.Root
}

// NewStore creates a Store on an opened root directory.
func NewStore(root *os.Root) *Store {
	return &Store{root: root}
}

// Open opens the blob for reading. Returns filekeep.ErrNotFound if it does not exist.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open blob %s: %w", key, filekeep.ErrNotFound)
		}
		return nil, fmt.Errorf("open blob %s: %w", key, err)
	}

	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Put atomically writes r to key and returns the number of bytes written.
// The content type is kept in the metadata record, not on disk.
func (s *Store) Put(ctx context.Context, key, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dir := path.Dir(key)
	if dir != "." {
		if err := s.root.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("put blob %s: create directories: %w", key, err)
		}
	}

	tmp := path.Join(dir, ".t"+uuid.NewString())
	f, err := s.root.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("put blob %s: create temp file: %w", key, err)
	}

	committed := false
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close temp file", "path", tmp, "err", closeErr)
		}
		if !committed {
			if rmErr := s.root.Remove(tmp); rmErr != nil {
				slog.Warn("failed to remove temp file", "path", tmp, "err", rmErr)
			}
		}
	}()

	n, err := io.Copy(f, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		return 0, fmt.Errorf("put blob %s: copy: %w", key, err)
	}

	if err := f.Sync(); err != nil {
		return 0, fmt.Errorf("put blob %s: sync: %w", key, err)
	}

	if err := s.root.Rename(tmp, key); err != nil {
		return 0, fmt.Errorf("put blob %s: rename: %w", key, err)
	}
	committed = true

	return n, nil
}

// Delete removes a blob. Returns filekeep.ErrNotFound if it does not exist.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(key); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete blob %s: %w", key, filekeep.ErrNotFound)
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
