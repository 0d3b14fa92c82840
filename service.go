package filekeep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// TokenVerifier turns an opaque bearer credential into a verified principal.
// Implementations return an error wrapping ErrUnauthorized for missing,
// malformed, expired or forged tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// BlobStore persists file content under opaque keys.
//
// All methods accept a context for cancellation. Implementations return
// ErrNotFound for keys that do not exist.
type BlobStore interface {
	// Put stores content under key and returns the number of bytes actually
	// consumed from r. An existing blob at key is overwritten.
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)

	// Open returns a reader for the blob. The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error
}

// MetadataStore persists file records keyed by id.
//
// Implementations must be safe for concurrent use and return ErrNotFound for
// ids that do not exist.
type MetadataStore interface {
	Put(ctx context.Context, rec FileRecord) error
	Get(ctx context.Context, id string) (FileRecord, error)
	Delete(ctx context.Context, id string) error

	// Scan returns every record matching the filter. Equality on owner id is the
	// only filter pushed to the store; everything else is applied in memory.
	Scan(ctx context.Context, f ScanFilter) ([]FileRecord, error)
}

// ServiceConfig holds the collaborators and options of a FileService.
type ServiceConfig struct {
	Policy    *AccessPolicy
	Validator *FileValidator
	Logger    *slog.Logger

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// FileService orchestrates uploads, listings, downloads and deletions across
// the metadata store and the blob store.
type FileService struct {
	meta      MetadataStore
	blobs     BlobStore
	policy    *AccessPolicy
	validator *FileValidator
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

func NewFileService(meta MetadataStore, blobs BlobStore, cfg ServiceConfig) (*FileService, error) {
	if meta == nil {
		return nil, errors.New("new file service: metadata store is required")
	}
	if blobs == nil {
		return nil, errors.New("new file service: blob store is required")
	}

	s := &FileService{
		meta:      meta,
		blobs:     blobs,
		policy:    cfg.Policy,
		validator: cfg.Validator,
		logger:    cfg.Logger,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}
	if s.policy == nil {
		s.policy = NewAccessPolicy(nil)
	}
	if s.validator == nil {
		s.validator = NewFileValidator(nil)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

// Upload validates the filename, writes the content to the blob store and then
// persists the metadata record.
//
// The recorded size is the number of bytes the blob store consumed, never a
// size declared by the client. There is no rollback: when the metadata write
// fails after the blob write succeeded, the blob is left orphaned and logged.
func (s *FileService) Upload(ctx context.Context, p Principal, in UploadInput) (FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return FileRecord{}, fmt.Errorf("upload: %w: %w", ErrInternal, err)
	}

	if err := s.validator.Validate(in.Filename); err != nil {
		return FileRecord{}, fmt.Errorf("upload: %w", err)
	}

	if in.Content == nil {
		return FileRecord{}, fmt.Errorf("upload: %w: content cannot be nil", ErrInvalidInput)
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id := s.newID()
	key := StorageKey(p.ID, id, in.Filename)

	size, err := s.blobs.Put(ctx, key, contentType, in.Content)
	if err != nil {
		return FileRecord{}, fmt.Errorf("upload %s: put blob: %w: %w", key, ErrInternal, err)
	}

	email := p.Email
	if email == "" {
		email = "unknown"
	}

	rec := FileRecord{
		ID:          id,
		Filename:    in.Filename,
		ContentType: contentType,
		Size:        size,
		UploadDate:  s.now(),
		OwnerID:     p.ID,
		OwnerEmail:  email,
		StorageKey:  key,
	}

	if err := s.meta.Put(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "metadata write failed after blob write, blob orphaned",
			"id", id, "storage_key", key, "error", err)
		return FileRecord{}, fmt.Errorf("upload %s: put metadata: %w: %w", id, ErrInternal, err)
	}

	return rec, nil
}

// List returns the records visible to p: every record for admins, otherwise
// only records owned by p. Filters and sorting are applied in memory.
func (s *FileService) List(ctx context.Context, p Principal, q ListQuery) ([]FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w: %w", ErrInternal, err)
	}

	if q.SortBy == "" {
		q.SortBy = SortByDate
	}
	if !q.SortBy.IsValid() {
		return nil, fmt.Errorf("list files: %w: invalid sort key %q", ErrInvalidInput, q.SortBy)
	}

	var filter ScanFilter
	if !s.policy.CanListAll(p) {
		filter.OwnerID = p.ID
	}

	records, err := s.meta.Scan(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list files: %w: %w", ErrInternal, err)
	}

	return ApplyQuery(records, q), nil
}

// Delete removes a file owned by p. Only the owner may delete, admins included.
// A blob that is already gone is tolerated; a record that is already gone is
// reported as ErrNotFound.
func (s *FileService) Delete(ctx context.Context, p Principal, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete %s: %w: %w", id, ErrInternal, err)
	}

	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if !s.policy.CanDelete(p, rec) {
		return fmt.Errorf("delete %s: %w: not authorized to delete this file", id, ErrForbidden)
	}

	if err := s.blobs.Delete(ctx, rec.StorageKey); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s: delete blob: %w: %w", id, ErrInternal, err)
	}

	if err := s.meta.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("delete %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete %s: delete metadata: %w: %w", id, ErrInternal, err)
	}

	return nil
}

// Download opens a file for the owner or an admin. A blob missing for an
// existing record is a dependency failure, not ErrNotFound.
func (s *FileService) Download(ctx context.Context, p Principal, id string) (Download, error) {
	if err := ctx.Err(); err != nil {
		return Download{}, fmt.Errorf("download %s: %w: %w", id, ErrInternal, err)
	}

	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return Download{}, fmt.Errorf("download: %w", err)
	}

	if !s.policy.CanDownload(p, rec) {
		return Download{}, fmt.Errorf("download %s: %w: not authorized to download this file", id, ErrForbidden)
	}

	body, err := s.blobs.Open(ctx, rec.StorageKey)
	if err != nil {
		return Download{}, fmt.Errorf("download %s: open blob %s: %w: %w", id, rec.StorageKey, ErrInternal, err)
	}

	return Download{Record: rec, Body: body}, nil
}

func (s *FileService) getRecord(ctx context.Context, id string) (FileRecord, error) {
	if id == "" {
		return FileRecord{}, fmt.Errorf("get file: %w", ErrNotFound)
	}

	rec, err := s.meta.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return FileRecord{}, fmt.Errorf("get file %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return FileRecord{}, fmt.Errorf("get file %s: %w: %w", id, ErrInternal, err)
	}

	return rec, nil
}
