package filekeep

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"
)

// FileRecord is the metadata stored for every uploaded file.
type FileRecord struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"uploadDate"`
	OwnerID     string    `json:"userId"`
	OwnerEmail  string    `json:"userEmail"`
	StorageKey  string    `json:"-"`
}

// Principal is the verified identity behind a request.
type Principal struct {
	ID    string
	Email string
}

// ScanFilter narrows a metadata scan. An empty OwnerID scans every record.
type ScanFilter struct {
	OwnerID string
}

// SortBy selects the descending sort key of a listing.
type SortBy string

const (
	SortByDate SortBy = "date"
	SortBySize SortBy = "size"
)

func (s SortBy) IsValid() bool {
	switch s {
	case SortByDate, SortBySize:
		return true
	default:
		return false
	}
}

// ParseSortBy parses the sort_by query value. The empty string selects the
// default date ordering.
func ParseSortBy(s string) (SortBy, error) {
	if s == "" {
		return SortByDate, nil
	}
	sortBy := SortBy(s)
	if !sortBy.IsValid() {
		return "", fmt.Errorf("parse sort_by: %w: invalid sort key %q (valid keys: date, size)", ErrInvalidInput, s)
	}
	return sortBy, nil
}

// ListQuery carries the optional listing filters. Empty strings disable the
// corresponding filter.
type ListQuery struct {
	SortBy   SortBy
	FileType string
	Search   string
}

// UploadInput describes a file being uploaded.
type UploadInput struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Download is an open file ready to be streamed to the client.
// The caller must close Body.
type Download struct {
	Record FileRecord
	Body   io.ReadCloser
}

// Tables holds configurable table names for metadata storage.
type Tables struct {
	Files string `mapstructure:"files"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Files == "" {
		return errors.New("validate tables: files table name cannot be empty")
	}

	if !IsValidTableName(t.Files) {
		return fmt.Errorf("validate tables: invalid files table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Files)
	}

	return nil
}
