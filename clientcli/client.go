package clientcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 5 * time.Minute

// Client performs operations against a filekeep server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	// Apply defaults
	cfg = cfg.WithDefaults()

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Token:    cfg.Token,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// newRequest builds an authenticated request against the configured endpoint.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.config.Endpoint + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	return req, nil
}

// Upload uploads file(s) to the server.
// For recursive uploads, walks the directory and uploads every regular file.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}
	if opts.Recursive {
		return c.uploadRecursive(ctx, opts)
	}
	result, err := c.uploadSingle(ctx, opts.LocalPath, opts.ContentType)
	if err != nil {
		return nil, err
	}
	return []UploadResult{result}, nil
}

// uploadRecursive walks a directory and uploads all files.
// Per-file failures are recorded in the results rather than aborting the walk.
func (c *Client) uploadRecursive(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	info, err := os.Stat(opts.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("stat local path: %w", err)
	}

	if !info.IsDir() {
		result, uploadErr := c.uploadSingle(ctx, opts.LocalPath, opts.ContentType)
		if uploadErr != nil {
			return nil, uploadErr
		}
		return []UploadResult{result}, nil
	}

	var results []UploadResult

	walkErr := filepath.WalkDir(opts.LocalPath, func(path string, d fs.DirEntry, fileErr error) error {
		if fileErr != nil {
			return fileErr
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !d.Type().IsRegular() {
			return nil
		}

		result, uploadErr := c.uploadSingle(ctx, path, "")
		if uploadErr != nil {
			result = UploadResult{LocalPath: path, Err: uploadErr}
		}
		results = append(results, result)
		return nil
	})

	if walkErr != nil {
		return results, fmt.Errorf("walk directory: %w", walkErr)
	}

	return results, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// uploadSingle streams a single file to POST /upload as multipart/form-data.
func (c *Client) uploadSingle(ctx context.Context, localPath, contentType string) (UploadResult, error) {
	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if contentType == "" {
		contentType = detectContentType(localPath)
	}

	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()
	mw := multipart.NewWriter(pw)

	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`,
			quoteEscaper.Replace(filepath.Base(localPath))))
		header.Set("Content-Type", contentType)

		part, partErr := mw.CreatePart(header)
		if partErr == nil {
			_, partErr = io.Copy(part, file)
		}
		if partErr == nil {
			partErr = mw.Close()
		}
		_ = pw.CloseWithError(partErr)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", nil, pr)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, parseServerError(resp.StatusCode, body)
	}

	var info FileInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return UploadResult{}, fmt.Errorf("parse response: %w", err)
	}

	return UploadResult{LocalPath: localPath, File: info}, nil
}

// Download downloads a file from the server.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.ID == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyID)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/files/"+url.PathEscape(opts.ID)+"/download", nil, http.NoBody)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &DownloadResult{
		ID:          opts.ID,
		Filename:    attachmentFilename(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	// If stdout requested, return the body for the caller to handle
	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = result.Filename
	}
	if localPath == "" {
		localPath = opts.ID
	}
	result.LocalPath = localPath

	// Create parent directories if needed
	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// attachmentFilename extracts a safe base filename from a Content-Disposition header.
func attachmentFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// Delete deletes one or more files from the server.
// Continues on error, collecting results for all ids.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if len(opts.IDs) == 0 {
		return nil, ErrNoIDs
	}

	results := make([]DeleteResult, 0, len(opts.IDs))

	for _, id := range opts.IDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		results = append(results, c.deleteSingle(ctx, id))
	}

	return results, nil
}

// deleteSingle deletes a single file from the server.
func (c *Client) deleteSingle(ctx context.Context, id string) DeleteResult {
	if id == "" {
		return DeleteResult{ID: id, Err: ErrEmptyID}
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/files/"+url.PathEscape(id), nil, http.NoBody)
	if err != nil {
		return DeleteResult{ID: id, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return DeleteResult{ID: id, Err: fmt.Errorf("do request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return DeleteResult{ID: id, Err: parseServerError(resp.StatusCode, body)}
	}

	return DeleteResult{ID: id, Deleted: true}
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// List lists the files visible to the caller.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	query := url.Values{}
	if opts.SortBy != "" {
		query.Set("sort_by", opts.SortBy)
	}
	if opts.FileType != "" {
		query.Set("file_type", opts.FileType)
	}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/files", query, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}

	items := []FileInfo{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &ListResult{Items: items}, nil
}

// CheckToken confirms the server accepts the token by listing the files it
// grants access to, and returns how many there are.
func (c *Client) CheckToken(ctx context.Context) (int, error) {
	result, err := c.List(ctx, ListOptions{})
	if err != nil {
		return 0, fmt.Errorf("check token: %w", err)
	}
	return len(result.Items), nil
}

// TotalSize calculates the total size of all items in bytes.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Size
	}
	return total
}

// detectContentType returns MIME type based on file extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	return mimeType
}

// parseServerError builds an APIError from a non-success response.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}

	var se serverError
	if err := json.Unmarshal(body, &se); err == nil {
		apiErr.Code = se.Error
		apiErr.Message = se.Message
	}

	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Code       string // error code from the JSON body, if any
	Message    string // message from the JSON body, if any
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " " + e.Code + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrBadRequest is returned when the server rejects the input (400),
	// for example a disallowed file extension.
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}

	// ErrNotFound is returned when the requested file does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the token is missing, invalid or expired (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the caller may not act on the file (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}
)
