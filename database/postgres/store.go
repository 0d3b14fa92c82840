// Package postgres implements filekeep.MetadataStore on PostgreSQL using a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/filekeep"
)

type store struct {
	pool      *pgxpool.Pool
	tableName string
}

// NewStore creates a metadata store on an existing pool. The table must exist.
func NewStore(pool *pgxpool.Pool, tables filekeep.Tables) (filekeep.MetadataStore, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}
	return &store{pool: pool, tableName: tables.Files}, nil
}

const selectColumns = `id, filename, content_type, size_bytes, uploaded_at, owner_id, owner_email, storage_key`

func (s *store) Put(ctx context.Context, rec filekeep.FileRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, filename, content_type, size_bytes, uploaded_at, owner_id, owner_email, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET filename = EXCLUDED.filename,
			content_type = EXCLUDED.content_type,
			size_bytes = EXCLUDED.size_bytes,
			uploaded_at = EXCLUDED.uploaded_at,
			owner_id = EXCLUDED.owner_id,
			owner_email = EXCLUDED.owner_email,
			storage_key = EXCLUDED.storage_key
	`, pgx.Identifier{s.tableName}.Sanitize())

	_, err := s.pool.Exec(ctx, query,
		rec.ID, rec.Filename, rec.ContentType, rec.Size,
		rec.UploadDate, rec.OwnerID, rec.OwnerEmail, rec.StorageKey,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", rec.ID, err)
	}
	return nil
}

func (s *store) Get(ctx context.Context, id string) (filekeep.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns, pgx.Identifier{s.tableName}.Sanitize())

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return filekeep.FileRecord{}, fmt.Errorf("get %s: %w", id, filekeep.ErrNotFound)
		}
		return filekeep.FileRecord{}, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

func (s *store) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pgx.Identifier{s.tableName}.Sanitize())

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s: %w", id, filekeep.ErrNotFound)
	}
	return nil
}

func (s *store) Scan(ctx context.Context, f filekeep.ScanFilter) ([]filekeep.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, selectColumns, pgx.Identifier{s.tableName}.Sanitize())

	var args []any
	if f.OwnerID != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, f.OwnerID)
	}
	query += ` ORDER BY uploaded_at, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	defer rows.Close()

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

func scanRecord(row pgx.Row) (filekeep.FileRecord, error) {
	var rec filekeep.FileRecord
	err := row.Scan(
		&rec.ID, &rec.Filename, &rec.ContentType, &rec.Size,
		&rec.UploadDate, &rec.OwnerID, &rec.OwnerEmail, &rec.StorageKey,
	)
	if err != nil {
		return filekeep.FileRecord{}, err
	}
	rec.UploadDate = rec.UploadDate.UTC()
	return rec, nil
}
