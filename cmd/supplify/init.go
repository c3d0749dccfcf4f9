// Init command provisions the configured backend.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/supplify/crm/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the storage backend",
	Long: `Init opens the configured backend and creates any missing tables.
On a fresh spreadsheet this creates the four sheets with their header rows.
The effective configuration is printed on success.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}

	for _, table := range types.TableNames {
		if err := store.EnsureTable(cmd.Context(), table); err != nil {
			return fmt.Errorf("ensure table %s: %w", table, err)
		}
	}

	rendered, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	fmt.Println("Backend initialized successfully")
	fmt.Print(string(rendered))
	return nil
}
