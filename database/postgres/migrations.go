package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/filekeep"
)

// Migrate creates every table used by the metadata store.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables filekeep.Tables) error {
	if err := createFilesTable(ctx, pool, tables.Files); err != nil {
		return fmt.Errorf("migrate up %s: %w", tables.Files, err)
	}
	return nil
}

// DropTables drops every table used by the metadata store.
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables filekeep.Tables) error {
	sql := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{tables.Files}.Sanitize())
	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("migrate down %s: %w", tables.Files, err)
	}
	return nil
}

func createFilesTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := pgx.Identifier{tableName}.Sanitize()
	indexOwner := pgx.Identifier{fmt.Sprintf("idx_%s_owner_id", tableName)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			content_type TEXT NOT NULL,
			size_bytes BIGINT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			owner_id TEXT NOT NULL,
			owner_email TEXT NOT NULL,
			storage_key TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (owner_id, uploaded_at);
	`,
		quotedTable,
		indexOwner, quotedTable,
	)

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create files table: %w", err)
	}
	return nil
}
