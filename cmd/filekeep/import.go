package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sagarc03/filekeep"
	"github.com/sagarc03/filekeep/config"
)

var importCmd = &cobra.Command{
	Use:   "import [flags] <file1> [file2] ...",
	Short: "Import local files on behalf of a user",
	Long: `Import files from local paths into filekeep as if the given user had
uploaded them. Each file goes through the same validation as an HTTP
upload, so files with disallowed extensions are rejected.

Examples:
  # Import a single file for a user
  filekeep import --owner user-123 --email alice@example.com report.pdf

  # Import a directory recursively, skipping disallowed files
  filekeep import --owner user-123 -r --skip-invalid ./exports`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var (
	importOwner       string
	importEmail       string
	importRecursive   bool
	importSkipInvalid bool
	importQuiet       bool
)

func init() {
	importCmd.Flags().StringVar(&importOwner, "owner", "", "user id that will own the imported files")
	importCmd.Flags().StringVar(&importEmail, "email", "", "email recorded for the owner")
	importCmd.Flags().BoolVarP(&importRecursive, "recursive", "r", false, "recursively import directories")
	importCmd.Flags().BoolVar(&importSkipInvalid, "skip-invalid", false, "skip files that fail validation instead of stopping")
	importCmd.Flags().BoolVarP(&importQuiet, "quiet", "q", false, "suppress per-file output")
	_ = importCmd.MarkFlagRequired("owner")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	service, cleanup, err := newFileService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var files []string
	for _, arg := range args {
		found, collectErr := collectFiles(arg, importRecursive)
		if collectErr != nil {
			return fmt.Errorf("collect files from %s: %w", arg, collectErr)
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		slog.Info("no files to import")
		return nil
	}

	owner := filekeep.Principal{ID: importOwner, Email: importEmail}
	imported := 0
	skipped := 0

	for _, path := range files {
		f, openErr := os.Open(path) //nolint:gosec // Path comes from the operator's arguments
		if openErr != nil {
			return fmt.Errorf("open %s: %w", path, openErr)
		}

		record, uploadErr := service.Upload(ctx, owner, filekeep.UploadInput{
			Filename:    filepath.Base(path),
			ContentType: detectContentType(path),
			Content:     f,
		})
		_ = f.Close()

		if uploadErr != nil {
			if importSkipInvalid && errors.Is(uploadErr, filekeep.ErrInvalidInput) {
				skipped++
				if !importQuiet {
					slog.Warn("skipped", "path", path, "reason", uploadErr)
				}
				continue
			}
			return fmt.Errorf("import %s: %w", path, uploadErr)
		}

		imported++
		if !importQuiet {
			slog.Info("imported", "path", path, "id", record.ID, "size", record.Size)
		}
	}

	slog.Info("import complete", "imported", imported, "skipped", skipped)
	return nil
}

// collectFiles gathers regular files from a path, optionally recursively.
func collectFiles(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	if !recursive {
		return nil, fmt.Errorf("%s is a directory (use -r to import recursively)", path)
	}

	var files []string
	walkErr := filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Type().IsRegular() {
			files = append(files, walkPath)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return files, nil
}

// detectContentType determines the MIME type from a file's extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return "application/octet-stream"
	}

	return contentType
}
