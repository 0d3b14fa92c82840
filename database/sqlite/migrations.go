package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/filekeep"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type TableMigration struct {
	TableName string
	Up        func(ctx context.Context, db *sql.DB) error
	Down      func(ctx context.Context, db *sql.DB) error
}

func getTableMigrations(tables filekeep.Tables) []TableMigration {
	return []TableMigration{
		{
			TableName: tables.Files,
			Up:        createFilesTable(tables.Files),
			Down:      dropTable(tables.Files),
		},
	}
}

func Migrate(ctx context.Context, db *sql.DB, tables filekeep.Tables) error {
	for _, migration := range getTableMigrations(tables) {
		if err := migration.Up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.TableName, err)
		}
	}
	return nil
}

func DropTables(ctx context.Context, db *sql.DB, tables filekeep.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.Down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.TableName, err)
		}
	}

	return nil
}

func createFilesTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexOwner := quoteIdentifier(fmt.Sprintf("idx_%s_owner_id", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT NOT NULL PRIMARY KEY,
				filename TEXT NOT NULL,
				content_type TEXT NOT NULL,
				size_bytes INTEGER NOT NULL,
				uploaded_at TEXT NOT NULL,
				owner_id TEXT NOT NULL,
				owner_email TEXT NOT NULL,
				storage_key TEXT NOT NULL
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		indexSQL := fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s ON %s (owner_id, uploaded_at)
		`, indexOwner, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index owner_id: %w", err)
		}

		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(tableName))
		_, err := db.ExecContext(ctx, dropSQL)
		return err
	}
}
