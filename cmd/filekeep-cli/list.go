package main

import (
	"os"

	"github.com/sagarc03/filekeep/clientcli"
	"github.com/spf13/cobra"
)

var (
	listSortBy   string
	listFileType string
)

var listCmd = &cobra.Command{
	Use:     "list [search]",
	Aliases: []string{"ls"},
	Short:   "List files visible to you",
	Long: `List files visible to you.

Regular users see their own files. Admins see every file.

Examples:
  filekeep-cli list
  filekeep-cli list report
  filekeep-cli list --type pdf --sort size`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listSortBy, "sort", "", "sort by 'date' (default) or 'size'")
	listCmd.Flags().StringVar(&listFileType, "type", "", "filter by file extension, e.g. pdf")
}

func runList(cmd *cobra.Command, args []string) error {
	search := ""
	if len(args) > 0 {
		search = args[0]
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.List(cmdContext(cmd), clientcli.ListOptions{
		SortBy:   listSortBy,
		FileType: listFileType,
		Search:   search,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	return getFormatter().FormatList(os.Stdout, result)
}
