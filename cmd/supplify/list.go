// List command prints the entities of a table.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supplify/crm/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <table>",
	Short: "List entities of a table",
	Long: `List prints all entities of the specified table as JSON, most
recently updated first.

Valid table names: companies, contacts, deals, activities

Example:
  supplify list companies
  supplify list deals`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	tableName := args[0]
	if !types.IsStandardTable(tableName) {
		return fmt.Errorf("unknown table %q (valid: %s)", tableName, validTableNamesStr)
	}

	repository, err := openRepository(cmd.Context())
	if err != nil {
		return err
	}

	switch tableName {
	case types.TableCompanies:
		return printJSON(repository.ListCompanies(cmd.Context()))
	case types.TableContacts:
		return printJSON(repository.ListContacts(cmd.Context()))
	case types.TableDeals:
		return printJSON(repository.ListDeals(cmd.Context()))
	default:
		return printJSON(repository.ListActivities(cmd.Context()))
	}
}
