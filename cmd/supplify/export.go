// Export command writes a table as CSV.
package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/supplify/crm/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export <table> [file]",
	Short: "Export a table as CSV",
	Long: `Export writes all rows of the specified table as CSV in the table's
canonical column order, to the given file or to stdout.

Valid table names: companies, contacts, deals, activities

Example:
  supplify export companies
  supplify export deals deals.csv`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	tableName := args[0]
	if !types.IsStandardTable(tableName) {
		return fmt.Errorf("unknown table %q (valid: %s)", tableName, validTableNamesStr)
	}

	repository, err := openRepository(cmd.Context())
	if err != nil {
		return err
	}

	rows, err := repository.Search(cmd.Context(), tableName, "")
	if err != nil {
		return err
	}

	out := os.Stdout
	if len(args) == 2 {
		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	header := types.TableHeaders[tableName]
	cw := csv.NewWriter(out)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range rows {
		cells := make([]string, len(header))
		for i, col := range header {
			cells[i] = rec[col]
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
