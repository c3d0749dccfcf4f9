// Search command runs the cross-table substring search.
package main

import (
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search companies, contacts and deals",
	Long: `Search runs a case-insensitive substring match over all fields of
companies, contacts and deals and prints the grouped results as JSON.

Example:
  supplify search acme
  supplify search "maria@"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	repository, err := openRepository(cmd.Context())
	if err != nil {
		return err
	}

	results, err := repository.SearchAll(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(results)
}
