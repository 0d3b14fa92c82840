package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagarc03/filekeep/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_Lifecycle_SQLite runs the owner/admin lifecycle against SQLite.
func TestE2E_Lifecycle_SQLite(t *testing.T) {
	baseURL := startServer(t, ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "sqlite",
		DBDSN:       filepath.Join(t.TempDir(), "test.db"),
		StoragePath: t.TempDir(),
		Admins:      []string{"admin@example.com"},
	})

	runLifecycleTests(t, baseURL)
}

// TestE2E_Lifecycle_Postgres runs the owner/admin lifecycle against PostgreSQL.
func TestE2E_Lifecycle_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres e2e in short mode")
	}

	baseURL := startServer(t, ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "postgres",
		DBDSN:       getSharedPostgresDatabase(t),
		StoragePath: t.TempDir(),
		Admins:      []string{"admin@example.com"},
	})

	runLifecycleTests(t, baseURL)
}

// runLifecycleTests uploads as one user and checks what others can see and do.
func runLifecycleTests(t *testing.T, baseURL string) {
	t.Helper()
	ctx := context.Background()

	alice := newClient(t, baseURL, "alice", "alice@example.com")
	bob := newClient(t, baseURL, "bob", "bob@example.com")
	admin := newClient(t, baseURL, "root", "admin@example.com")

	var uploaded clientcli.FileInfo

	t.Run("alice uploads a file", func(t *testing.T) {
		path := writeLocalFile(t, "report.txt", "quarterly numbers")

		results, err := alice.Upload(ctx, clientcli.UploadOptions{LocalPath: path})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)

		uploaded = results[0].File
		assert.NotEmpty(t, uploaded.ID)
		assert.Equal(t, "report.txt", uploaded.Filename)
		assert.Equal(t, int64(len("quarterly numbers")), uploaded.Size)
		assert.Equal(t, "alice", uploaded.OwnerID)
		assert.Equal(t, "alice@example.com", uploaded.OwnerEmail)
		assert.False(t, uploaded.UploadDate.IsZero())
	})

	require.NotEmpty(t, uploaded.ID, "upload must succeed for the remaining steps")

	t.Run("alice sees her file", func(t *testing.T) {
		result, err := alice.List(ctx, clientcli.ListOptions{})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, uploaded.ID, result.Items[0].ID)
	})

	t.Run("bob sees nothing", func(t *testing.T) {
		result, err := bob.List(ctx, clientcli.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})

	t.Run("admin sees every file", func(t *testing.T) {
		result, err := admin.List(ctx, clientcli.ListOptions{})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "alice@example.com", result.Items[0].OwnerEmail)
	})

	t.Run("alice downloads her file", func(t *testing.T) {
		result, body, err := alice.Download(ctx, clientcli.DownloadOptions{ID: uploaded.ID, LocalPath: "-"})
		require.NoError(t, err)
		defer func() { _ = body.Close() }()

		content, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "quarterly numbers", string(content))
		assert.Equal(t, "report.txt", result.Filename)
	})

	t.Run("bob cannot download or delete", func(t *testing.T) {
		_, _, err := bob.Download(ctx, clientcli.DownloadOptions{ID: uploaded.ID, LocalPath: "-"})
		assert.ErrorIs(t, err, clientcli.ErrForbidden)

		results, err := bob.Delete(ctx, clientcli.DeleteOptions{IDs: []string{uploaded.ID}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, clientcli.ErrForbidden)
	})

	t.Run("admin downloads alice's file", func(t *testing.T) {
		_, body, err := admin.Download(ctx, clientcli.DownloadOptions{ID: uploaded.ID, LocalPath: "-"})
		require.NoError(t, err)
		_ = body.Close()
	})

	t.Run("admin cannot delete alice's file", func(t *testing.T) {
		results, err := admin.Delete(ctx, clientcli.DeleteOptions{IDs: []string{uploaded.ID}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, clientcli.ErrForbidden)
	})

	t.Run("alice deletes her file", func(t *testing.T) {
		results, err := alice.Delete(ctx, clientcli.DeleteOptions{IDs: []string{uploaded.ID}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NoError(t, results[0].Err)
		assert.True(t, results[0].Deleted)

		again, err := alice.Delete(ctx, clientcli.DeleteOptions{IDs: []string{uploaded.ID}})
		require.NoError(t, err)
		assert.ErrorIs(t, again[0].Err, clientcli.ErrNotFound)
	})

	t.Run("download after delete is not found", func(t *testing.T) {
		_, _, err := alice.Download(ctx, clientcli.DownloadOptions{ID: uploaded.ID, LocalPath: "-"})
		assert.ErrorIs(t, err, clientcli.ErrNotFound)

		result, err := alice.List(ctx, clientcli.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})
}

// TestE2E_Query exercises filtering, search, and sorting over several uploads.
func TestE2E_Query(t *testing.T) {
	baseURL := startServer(t, ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "sqlite",
		DBDSN:       filepath.Join(t.TempDir(), "test.db"),
		StoragePath: t.TempDir(),
	})
	ctx := context.Background()
	alice := newClient(t, baseURL, "alice", "alice@example.com")

	// Uploaded largest first so the newest file is the smallest.
	files := []struct{ name, content string }{
		{"large.txt", strings.Repeat("x", 200)},
		{"medium.json", `{"k":"value"}`},
		{"small.txt", "a"},
	}
	for _, f := range files {
		results, err := alice.Upload(ctx, clientcli.UploadOptions{LocalPath: writeLocalFile(t, f.name, f.content)})
		require.NoError(t, err)
		require.NoError(t, results[0].Err)
	}

	t.Run("default sort is newest first", func(t *testing.T) {
		result, err := alice.List(ctx, clientcli.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"small.txt", "medium.json", "large.txt"}, filenames(result.Items))
	})

	t.Run("sort by date", func(t *testing.T) {
		result, err := alice.List(ctx, clientcli.ListOptions{SortBy: "date"})
		require.NoError(t, err)
		assert.Equal(t, []string{"small.txt", "medium.json", "large.txt"}, filenames(result.Items))
	})

	t.Run("sort by size descending", func(t *testing.T) {
		result, err := alice.List(ctx, clientcli.ListOptions{SortBy: "size"})
		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		assert.Equal(t, []string{"large.txt", "medium.json", "small.txt"}, filenames(result.Items))
	})

	t.Run("filter by file type", func(t *testing.T) {
		result, err := alice.List(ctx, clientcli.ListOptions{FileType: "json"})
		require.NoError(t, err)
		assert.Equal(t, []string{"medium.json"}, filenames(result.Items))
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		result, err := alice.List(ctx, clientcli.ListOptions{Search: "LARGE"})
		require.NoError(t, err)
		assert.Equal(t, []string{"large.txt"}, filenames(result.Items))
	})

	t.Run("invalid sort is rejected", func(t *testing.T) {
		_, err := alice.List(ctx, clientcli.ListOptions{SortBy: "name"})
		assert.ErrorIs(t, err, clientcli.ErrBadRequest)
	})
}

// TestE2E_Rejections covers authentication and upload validation failures.
func TestE2E_Rejections(t *testing.T) {
	baseURL := startServer(t, ServerConfig{
		Port:          getOpenPort(t),
		DBType:        "sqlite",
		DBDSN:         filepath.Join(t.TempDir(), "test.db"),
		StoragePath:   t.TempDir(),
		MaxUploadSize: 1024,
	})
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/files")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "unauthorized", body["error"])
	})

	t.Run("malformed token", func(t *testing.T) {
		client, err := clientcli.New(&clientcli.Config{Endpoint: baseURL, Token: "not-a-jwt"})
		require.NoError(t, err)

		_, err = client.List(ctx, clientcli.ListOptions{})
		assert.ErrorIs(t, err, clientcli.ErrUnauthorized)
	})

	alice := newClient(t, baseURL, "alice", "alice@example.com")

	t.Run("disallowed extension", func(t *testing.T) {
		_, err := alice.Upload(ctx, clientcli.UploadOptions{LocalPath: writeLocalFile(t, "tool.exe", "MZ")})
		assert.ErrorIs(t, err, clientcli.ErrBadRequest)
	})

	t.Run("oversize upload", func(t *testing.T) {
		_, err := alice.Upload(ctx, clientcli.UploadOptions{
			LocalPath: writeLocalFile(t, "big.txt", strings.Repeat("x", 4096)),
		})
		assert.ErrorIs(t, err, clientcli.ErrBadRequest)
	})

	t.Run("missing file field", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("note", "no file here"))
		require.NoError(t, mw.Close())

		req, err := http.NewRequest(http.MethodPost, baseURL+"/upload", &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+issueToken(t, "alice", "alice@example.com"))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := alice.Download(ctx, clientcli.DownloadOptions{ID: "does-not-exist", LocalPath: "-"})
		assert.ErrorIs(t, err, clientcli.ErrNotFound)
	})
}

// TestE2E_TokenCommand checks that tokens minted by the CLI are accepted.
func TestE2E_TokenCommand(t *testing.T) {
	cfg := ServerConfig{
		Port:        getOpenPort(t),
		DBType:      "sqlite",
		DBDSN:       filepath.Join(t.TempDir(), "test.db"),
		StoragePath: t.TempDir(),
	}
	baseURL := startServer(t, cfg)

	token := strings.TrimSpace(runBinary(t, "token",
		"--config", createConfigFile(t, cfg),
		"--sub", "carol",
		"--email", "carol@example.com",
	))
	require.NotEmpty(t, token)

	client, err := clientcli.New(&clientcli.Config{Endpoint: baseURL, Token: token})
	require.NoError(t, err)

	results, err := client.Upload(context.Background(), clientcli.UploadOptions{
		LocalPath: writeLocalFile(t, "notes.txt", "hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "carol", results[0].File.OwnerID)
	assert.Equal(t, "carol@example.com", results[0].File.OwnerEmail)
}

func filenames(items []clientcli.FileInfo) []string {
	names := make([]string, len(items))
	for i := range items {
		names[i] = items[i].Filename
	}
	return names
}
