package types

import (
	"context"
	"errors"
)

// Row is one table row keyed by column name. Cell values are always strings;
// numeric and boolean fields are parsed at the repository boundary.
type Row map[string]string

// ReadResult carries the rows of a List call plus a staleness flag. Stale is
// true when the backend could not reach the remote store and served the last
// cached snapshot instead. Callers decide whether stale data is acceptable.
type ReadResult struct {
	Rows  []Row
	Stale bool
}

// Store provides uniform row-level operations over a single four-table
// database. Both the Google Sheets backend and the in-memory backend
// implement it with identical matching semantics.
type Store interface {
	// EnsureTable creates the table if missing and repairs its header row.
	// Idempotent; for the companies table it attempts the legacy schema
	// migration before touching the header.
	EnsureTable(ctx context.Context, table string) error

	// List returns all data rows of the table in sheet order, blank rows
	// filtered out. Remote failures degrade: the result carries the last
	// cached rows with Stale set, or no rows plus a non-nil error when
	// nothing was ever cached. List never panics on remote failure.
	List(ctx context.Context, table string) (ReadResult, error)

	// Upsert writes rec into the first row whose matchBy columns all equal
	// rec's values, or appends a new row when no row matches. Write failures
	// after retry exhaustion are returned to the caller.
	Upsert(ctx context.Context, table string, rec Row, matchBy []string) error

	// Remove deletes the row whose id column equals id. Returns false when
	// no such row exists.
	Remove(ctx context.Context, table string, id string) (bool, error)
}

// Store operation errors.
var (
	ErrTableUnknown  = errors.New("unknown table")
	ErrNotConfigured = errors.New("store is not configured")
	ErrNotFound      = errors.New("entity not found")
)
