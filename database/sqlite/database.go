package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/filekeep"

	_ "modernc.org/sqlite" // SQLite driver
)

// database provides SQLite database operations.
type database struct {
	db     *sql.DB
	tables filekeep.Tables
}

// Connect opens a SQLite database. The pool is limited to one connection so
// an in-memory DSN refers to a single database and writes never contend.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables filekeep.Tables) (*database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &database{
		db:     db,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate creates the files table and its indexes if they do not exist.
func (d *database) Migrate(ctx context.Context) error {
	if err := Migrate(ctx, d.db, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the database schema matches expected structure.
func (d *database) Validate(ctx context.Context) error {
	return ValidateSchema(ctx, d.db, d.tables)
}

// GetStore returns the metadata store backed by this database.
func (d *database) GetStore() filekeep.MetadataStore {
	return &store{db: d.db, tableName: d.tables.Files}
}

// Close closes the database connection.
func (d *database) Close() error {
	return d.db.Close()
}
