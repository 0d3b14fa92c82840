// Package sqlite implements filekeep.MetadataStore on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/filekeep"
)

// timeFormat is fixed width so text ordering matches chronological ordering.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

type store struct {
	db        *sql.DB
	tableName string
}

// NewStore creates a metadata store on an open database. The table must exist.
func NewStore(db *sql.DB, tables filekeep.Tables) (filekeep.MetadataStore, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}
	return &store{db: db, tableName: tables.Files}, nil
}

func (s *store) Put(ctx context.Context, rec filekeep.FileRecord) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (id, filename, content_type, size_bytes, uploaded_at, owner_id, owner_email, storage_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			filename = excluded.filename,
			content_type = excluded.content_type,
			size_bytes = excluded.size_bytes,
			uploaded_at = excluded.uploaded_at,
			owner_id = excluded.owner_id,
			owner_email = excluded.owner_email,
			storage_key = excluded.storage_key`, quoteIdentifier(s.tableName))

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Filename, rec.ContentType, rec.Size,
		rec.UploadDate.UTC().Format(timeFormat), rec.OwnerID, rec.OwnerEmail, rec.StorageKey,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.ID, err)
	}
	return nil
}

func (s *store) Get(ctx context.Context, id string) (filekeep.FileRecord, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, filename, content_type, size_bytes, uploaded_at, owner_id, owner_email, storage_key
		FROM %s
		WHERE id = ?`, quoteIdentifier(s.tableName))

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return filekeep.FileRecord{}, fmt.Errorf("get %s: %w", id, filekeep.ErrNotFound)
		}
		return filekeep.FileRecord{}, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

func (s *store) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteIdentifier(s.tableName)) //nolint:gosec // G201: table name is validated

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, filekeep.ErrNotFound)
	}
	return nil
}

func (s *store) Scan(ctx context.Context, f filekeep.ScanFilter) ([]filekeep.FileRecord, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, filename, content_type, size_bytes, uploaded_at, owner_id, owner_email, storage_key
		FROM %s`, quoteIdentifier(s.tableName))

	var args []any
	if f.OwnerID != "" {
		query += ` WHERE owner_id = ?`
		args = append(args, f.OwnerID)
	}
	query += ` ORDER BY uploaded_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []filekeep.FileRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan: rows: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (filekeep.FileRecord, error) {
	var rec filekeep.FileRecord
	var uploadedAt string

	err := row.Scan(
		&rec.ID, &rec.Filename, &rec.ContentType, &rec.Size,
		&uploadedAt, &rec.OwnerID, &rec.OwnerEmail, &rec.StorageKey,
	)
	if err != nil {
		return filekeep.FileRecord{}, err
	}

	rec.UploadDate, err = time.Parse(timeFormat, uploadedAt)
	if err != nil {
		return filekeep.FileRecord{}, fmt.Errorf("parse uploaded_at: %w", err)
	}

	return rec, nil
}
