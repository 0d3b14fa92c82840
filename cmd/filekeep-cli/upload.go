package main

import (
	"context"
	"os"

	"github.com/sagarc03/filekeep/clientcli"
	"github.com/spf13/cobra"
)

var (
	uploadRecursive   bool
	uploadContentType string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload a file to the server",
	Long: `Upload a file to the server.

The server assigns an id and keeps the original filename. Only allowed
file types are accepted.

Examples:
  filekeep-cli upload ./report.pdf
  filekeep-cli upload -r ./invoices/
  filekeep-cli upload --content-type application/pdf ./scan`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVarP(&uploadRecursive, "recursive", "r", false, "upload every file in a directory")
	uploadCmd.Flags().StringVar(&uploadContentType, "content-type", "", "override content-type")
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Upload(cmdContext(cmd), clientcli.UploadOptions{
		LocalPath:   args[0],
		ContentType: uploadContentType,
		Recursive:   uploadRecursive,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if err := getFormatter().FormatUpload(os.Stdout, results); err != nil {
		return err
	}

	for i := range results {
		if results[i].Err != nil {
			return &exitError{code: 1}
		}
	}

	return nil
}

// cmdContext returns the command context, falling back to Background.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
