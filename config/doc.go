// Package config provides configuration loading and validation for filekeep.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (FILEKEEP_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with FILEKEEP_ prefix:
//   - server.port → FILEKEEP_SERVER_PORT
//   - database.type → FILEKEEP_DATABASE_TYPE
//   - auth.hmac.secret → FILEKEEP_AUTH_HMAC_SECRET
//   - storage.s3.bucket → FILEKEEP_STORAGE_S3_BUCKET
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: port and max_upload_size
//   - Database: type (sqlite/postgres/dynamodb), DSN, table names, auto_migrate
//   - Storage: type (filesystem/s3), local path, S3 bucket settings
//   - Auth: verifier type (hmac/jwks), verifier settings, admin allow-list
//   - Files: allowed upload extensions
//   - CORS: cross-origin resource sharing settings
//   - Log: level and format (text/json)
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Database type must be sqlite, postgres, or dynamodb
//   - Storage type must be filesystem or s3; filesystem requires a path
//   - Auth type must be hmac or jwks
//   - Log level must be debug, info, warn, or error
//
// Credentials such as the HMAC secret or the S3 bucket are checked when the
// corresponding backend is constructed, not at load time.
package config
