package main

import (
	"os"

	"github.com/sagarc03/filekeep/clientcli"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id> [id...]",
	Aliases: []string{"rm"},
	Short:   "Delete files from the server",
	Long: `Delete one or more files by id.

Only the owner or an admin may delete a file.

Examples:
  filekeep-cli delete 0f8fad5b-d9cb-469f-a165-70867728950e
  filekeep-cli delete -q id1 id2 id3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	results, err := client.Delete(cmdContext(cmd), clientcli.DeleteOptions{IDs: args})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	if err := getFormatter().FormatDelete(os.Stdout, results); err != nil {
		return err
	}

	if clientcli.HasDeleteErrors(results) {
		return &exitError{code: 1}
	}

	return nil
}
