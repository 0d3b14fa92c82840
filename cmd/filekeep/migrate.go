package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/filekeep/config"
	"github.com/sagarc03/filekeep/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or verify the metadata schema",
	Long: `Create the files table (or DynamoDB table) if it does not exist and
verify that the existing schema matches what filekeep expects.

Run this once before starting the server with database.auto_migrate disabled.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	db, err := database.Open(cmd.Context(), cfg.Database, true)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	defer func() { _ = db.Close() }()

	slog.Info("database migration complete", "type", cfg.Database.Type, "table", cfg.Database.Tables.Files)
	return nil
}
