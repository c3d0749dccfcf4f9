// Package memory implements the table store against process-lifetime
// in-memory slices. It is the deterministic drop-in used by tests and local
// development: same contract as the sheets backend, no retry, no cache, no
// migration (no legacy shape can exist here).
package memory

import (
	"context"
	"sync"

	"github.com/supplify/crm/pkg/types"
)

// Store implements types.Store over in-memory tables. Safe for concurrent
// use. Construct a fresh instance per test for isolation.
type Store struct {
	mu     sync.RWMutex
	tables map[string][]types.Row
}

// New returns an empty Store with all four standard tables.
func New() *Store {
	tables := make(map[string][]types.Row, len(types.TableNames))
	for _, name := range types.TableNames {
		tables[name] = nil
	}
	return &Store{tables: tables}
}

// EnsureTable validates the table name. Tables always exist in memory mode.
func (s *Store) EnsureTable(_ context.Context, table string) error {
	if !types.IsStandardTable(table) {
		return types.ErrTableUnknown
	}
	return nil
}

// List returns a copy of the table's rows in insertion order. Never stale.
func (s *Store) List(_ context.Context, table string) (types.ReadResult, error) {
	if !types.IsStandardTable(table) {
		return types.ReadResult{}, types.ErrTableUnknown
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]types.Row, 0, len(s.tables[table]))
	for _, rec := range s.tables[table] {
		rows = append(rows, copyRow(rec))
	}
	return types.ReadResult{Rows: rows}, nil
}

// Upsert merges rec into the first row whose matchBy columns all equal rec's
// values, or appends a new row when none matches.
func (s *Store) Upsert(_ context.Context, table string, rec types.Row, matchBy []string) error {
	if !types.IsStandardTable(table) {
		return types.ErrTableUnknown
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.tables[table] {
		if rowMatches(row, rec, matchBy) {
			for k, v := range rec {
				row[k] = v
			}
			return nil
		}
	}
	s.tables[table] = append(s.tables[table], copyRow(rec))
	return nil
}

// Remove deletes the row whose id column equals id. Returns false when no
// row matches.
func (s *Store) Remove(_ context.Context, table string, id string) (bool, error) {
	if !types.IsStandardTable(table) {
		return false, types.ErrTableUnknown
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	for i, row := range rows {
		if row["id"] == id {
			s.tables[table] = append(rows[:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func rowMatches(row, rec types.Row, matchBy []string) bool {
	for _, key := range matchBy {
		if row[key] != rec[key] {
			return false
		}
	}
	return true
}

func copyRow(rec types.Row) types.Row {
	out := make(types.Row, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
