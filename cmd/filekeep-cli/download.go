package main

import (
	"io"
	"os"

	"github.com/sagarc03/filekeep/clientcli"
	"github.com/spf13/cobra"
)

var (
	downloadOutput string
	downloadStdout bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <id> [local-path]",
	Short: "Download a file from the server",
	Long: `Download a file from the server by id.

Without a local path the file is saved under its original filename.

Examples:
  filekeep-cli download 0f8fad5b-d9cb-469f-a165-70867728950e
  filekeep-cli download 0f8fad5b-d9cb-469f-a165-70867728950e ./copy.pdf
  filekeep-cli download --stdout 0f8fad5b-d9cb-469f-a165-70867728950e | less`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
}

func runDownload(cmd *cobra.Command, args []string) error {
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}
	if downloadStdout {
		localPath = "-"
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, reader, err := client.Download(cmdContext(cmd), clientcli.DownloadOptions{
		ID:        args[0],
		LocalPath: localPath,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if reader != nil {
		defer func() { _ = reader.Close() }()
		if _, err := io.Copy(os.Stdout, reader); err != nil {
			return err
		}
		// Metadata goes to stderr so stdout stays the file content
		if jsonOutput {
			return getFormatter().FormatDownload(os.Stderr, result)
		}
		return nil
	}

	return getFormatter().FormatDownload(os.Stdout, result)
}
