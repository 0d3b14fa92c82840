package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/filekeep"
	"github.com/sagarc03/filekeep/database/dynamodb"
	"github.com/sagarc03/filekeep/database/postgres"
	"github.com/sagarc03/filekeep/database/sqlite"
)

// Database is the lifecycle of a metadata backend.
type Database interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Validate(ctx context.Context) error
	GetStore() filekeep.MetadataStore
	Close() error
}

// Config holds the configuration for connecting to a metadata backend.
type Config struct {
	// Type specifies the database type: "sqlite", "postgres" or "dynamodb"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres dynamodb"`
	// DSN is the data source name for the SQL backends
	DSN string `mapstructure:"dsn"`
	// Tables holds the table names
	Tables filekeep.Tables `mapstructure:"tables"`
	// DynamoDB holds client settings for the dynamodb backend
	DynamoDB dynamodb.Config `mapstructure:"dynamodb"`
	// AutoMigrate creates missing tables on startup
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// Connect validates the table names and opens the configured backend.
// It neither migrates nor validates the schema; see Open.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	var (
		db  Database
		err error
	)

	switch cfg.Type {
	case "sqlite":
		db, err = sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
	case "postgres":
		db, err = postgres.Connect(ctx, cfg.DSN, cfg.Tables)
	case "dynamodb":
		db, err = dynamodb.Connect(ctx, cfg.DynamoDB, cfg.Tables)
	default:
		return nil, fmt.Errorf("connect database: unsupported database type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Open connects, pings, optionally migrates and then validates the schema.
// The returned Database must be closed by the caller.
func Open(ctx context.Context, cfg Config, migrate bool) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database: ping: %w", err)
	}

	if migrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open database: %w", err)
		}
	}

	if err := db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	return db, nil
}
