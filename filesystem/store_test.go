package filesystem_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagarc03/filekeep"
	"github.com/sagarc03/filekeep/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*filesystem.Store, string) {
	t.Helper()
	tempDir := t.TempDir()
	root, err := os.OpenRoot(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return filesystem.NewStore(root), tempDir
}

func TestStore_Put(t *testing.T) {
	t.Run("writes nested key", func(t *testing.T) {
		store, dir := newStore(t)

		n, err := store.Put(context.Background(), "user-a/f1_notes.txt", "text/plain", strings.NewReader("hello world"))
		require.NoError(t, err)
		assert.Equal(t, int64(11), n)

		data, err := os.ReadFile(filepath.Join(dir, "user-a", "f1_notes.txt"))
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))
	})

	t.Run("overwrites existing blob", func(t *testing.T) {
		store, dir := newStore(t)
		ctx := context.Background()

		_, err := store.Put(ctx, "k.txt", "", strings.NewReader("first"))
		require.NoError(t, err)
		n, err := store.Put(ctx, "k.txt", "", strings.NewReader("2"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		data, err := os.ReadFile(filepath.Join(dir, "k.txt"))
		require.NoError(t, err)
		assert.Equal(t, "2", string(data))
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		store, dir := newStore(t)

		_, err := store.Put(context.Background(), "u/f.txt", "", bytes.NewReader(make([]byte, 64*1024)))
		require.NoError(t, err)

		entries, err := os.ReadDir(filepath.Join(dir, "u"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "f.txt", entries[0].Name())
	})

	t.Run("escaping the root fails", func(t *testing.T) {
		store, _ := newStore(t)

		_, err := store.Put(context.Background(), "../escape.txt", "", strings.NewReader("x"))
		assert.Error(t, err)
	})

	t.Run("context cancelled before", func(t *testing.T) {
		store, _ := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		n, err := store.Put(ctx, "k.txt", "", strings.NewReader("x"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, n)
	})

	t.Run("context cancelled during copy removes temp file", func(t *testing.T) {
		store, dir := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())

		n, err := store.Put(ctx, "k.txt", "", &cancellingReader{data: []byte("test content"), cancel: cancel})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, n)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

type cancellingReader struct {
	data   []byte
	pos    int
	cancel context.CancelFunc
}

func (r *cancellingReader) Read(p []byte) (n int, err error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	r.cancel()
	n = copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func TestStore_Open(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, dir := newStore(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("content"), 0o644))

		rc, err := store.Open(context.Background(), "test.txt")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
	})

	t.Run("not found", func(t *testing.T) {
		store, _ := newStore(t)

		rc, err := store.Open(context.Background(), "missing.txt")
		assert.ErrorIs(t, err, filekeep.ErrNotFound)
		assert.Nil(t, rc)
	})

	t.Run("context cancelled", func(t *testing.T) {
		store, _ := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Open(ctx, "test.txt")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStore_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, dir := newStore(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("content"), 0o644))

		require.NoError(t, store.Delete(context.Background(), "test.txt"))

		_, err := os.Stat(filepath.Join(dir, "test.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("not found", func(t *testing.T) {
		store, _ := newStore(t)

		err := store.Delete(context.Background(), "missing.txt")
		assert.ErrorIs(t, err, filekeep.ErrNotFound)
	})

	t.Run("context cancelled", func(t *testing.T) {
		store, _ := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, store.Delete(ctx, "test.txt"), context.Canceled)
	})
}
