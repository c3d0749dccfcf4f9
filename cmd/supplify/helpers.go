// Shared helpers for supplify CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supplify/crm/internal/memory"
	"github.com/supplify/crm/internal/repo"
	"github.com/supplify/crm/internal/sheets"
	"github.com/supplify/crm/pkg/types"
)

// validTableNamesStr is a comma-separated list of valid table names for
// error output.
var validTableNamesStr = strings.Join(types.TableNames, ", ")

// openStore builds the configured store backend.
func openStore(ctx context.Context) (types.Store, error) {
	switch cfg.Backend {
	case types.BackendSheets:
		store, err := sheets.New(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("open sheets store: %w", err)
		}
		return store, nil
	case types.BackendMemory:
		return memory.New(), nil
	default:
		return nil, types.ErrBackendUnknown
	}
}

// openRepository builds the typed repository over the configured store.
func openRepository(ctx context.Context) (*repo.Repository, error) {
	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	return repo.New(store), nil
}

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
