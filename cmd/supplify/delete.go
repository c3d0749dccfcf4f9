// Delete command removes an entity by id.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supplify/crm/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <id>",
	Short: "Delete an entity by id",
	Long: `Delete removes the entity with the given id from the specified table.
Deleting a company also removes its contacts, deals and activities.

Valid table names: companies, contacts, deals, activities

Example:
  supplify delete companies cmp_1712000000000_a1b2c3d4
  supplify delete activities act_1712000000000_e5f6a7b8`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	tableName := args[0]
	id := args[1]
	if !types.IsStandardTable(tableName) {
		return fmt.Errorf("unknown table %q (valid: %s)", tableName, validTableNamesStr)
	}

	repository, err := openRepository(cmd.Context())
	if err != nil {
		return err
	}

	switch tableName {
	case types.TableCompanies:
		err = repository.DeleteCompany(cmd.Context(), id)
	case types.TableContacts:
		err = repository.DeleteContact(cmd.Context(), id)
	case types.TableDeals:
		err = repository.DeleteDeal(cmd.Context(), id)
	default:
		err = repository.DeleteActivity(cmd.Context(), id)
	}
	if errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("entity %q not found in table %q", id, tableName)
	}
	if err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}

	fmt.Printf("Deleted %s from %s\n", id, tableName)
	return nil
}
