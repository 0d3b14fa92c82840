package clientcli

import (
	"time"
)

// FileInfo mirrors a file record returned by the server.
type FileInfo struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"uploadDate"`
	OwnerID     string    `json:"userId"`
	OwnerEmail  string    `json:"userEmail"`
}

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath   string
	ContentType string // optional, auto-detect if empty
	Recursive   bool
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string   `json:"local_path"`
	File      FileInfo `json:"file"`
	Err       error    `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	ID        string
	LocalPath string // empty = filename from server, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	LocalPath   string `json:"local_path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	IDs []string
}

// DeleteResult represents the result of deleting a single file.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// ListOptions configures a list operation.
type ListOptions struct {
	SortBy   string // "date" (default) or "size"
	FileType string
	Search   string
}

// ListResult contains the files visible to the caller.
type ListResult struct {
	Items []FileInfo `json:"items"`
}

// serverError mirrors the JSON error body returned by the server.
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
