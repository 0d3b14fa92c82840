package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/filekeep/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "filekeep",
	Short:   "Authenticated file upload and download server",
	Long: `filekeep is a file management API. Users upload files, list and
search their own uploads, download them and delete them. Admins can
see and download every file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if path, _ := cmd.Flags().GetString("config"); path != "" {
			files = append(files, path)
		}

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres, dynamodb (default: sqlite, env: FILEKEEP_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: filekeep.db, env: FILEKEEP_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("storage-type", "", "blob storage type: filesystem, s3 (default: filesystem, env: FILEKEEP_STORAGE_TYPE)")
	rootCmd.PersistentFlags().String("storage-path", "", "storage directory path (default: ./data, env: FILEKEEP_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: FILEKEEP_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json (env: FILEKEEP_LOG_FORMAT)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
