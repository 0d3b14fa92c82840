// Package database provides a unified interface for connecting to metadata backends.
//
// # Supported Backends
//
//   - PostgreSQL: production backend using a pgx connection pool
//   - SQLite: embedded backend for development and single node deployments
//   - DynamoDB: document backend scanned with an owner equality filter
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "filekeep.db",
//	    Tables: filekeep.Tables{Files: "filekeep_files"},
//	}
//
//	db, err := database.Open(ctx, cfg, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	store := db.GetStore()
//
// Open pings the backend, runs migrations when asked and validates the schema
// before returning.
package database
