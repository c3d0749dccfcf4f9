// Package repo maps store rows to typed CRM entities and carries the upsert
// and reconciliation logic: idempotent create-or-update keyed by id or
// natural key, cascading company deletes, and substring search.
package repo

import (
	"context"
	"errors"
	"sort"

	"github.com/supplify/crm/pkg/types"
)

// Input validation errors.
var (
	ErrNameRequired    = errors.New("name is required")
	ErrCompanyRequired = errors.New("companyId is required")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidType     = errors.New("invalid activity type")
)

// Repository exposes typed CRUD over a Store. Reads are optimistic: a remote
// failure degrades to the last cached or an empty listing rather than an
// error. Writes are strict and return the store's error.
//
// There is no cross-request locking: two concurrent upserts racing on the
// same natural key can both observe "no match" and create duplicates. This
// is an accepted data-quality risk, not an error.
type Repository struct {
	store types.Store
}

// New returns a Repository backed by store.
func New(store types.Store) *Repository {
	return &Repository{store: store}
}

// listRows reads a table, degrading to an empty listing when the store has
// neither fresh nor stale data. The store logs the underlying failure.
func (r *Repository) listRows(ctx context.Context, table string) []types.Row {
	res, err := r.store.List(ctx, table)
	if err != nil {
		return nil
	}
	return res.Rows
}

// sortByUpdatedAtDesc orders most-recently-touched first. The string compare
// is valid because timestamps are zero-padded ISO-8601.
func sortByUpdatedAtDesc[T any](items []T, updatedAt func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return updatedAt(items[i]) > updatedAt(items[j])
	})
}
