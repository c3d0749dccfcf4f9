// Package types defines the table store contract, the CRM entity types, and
// the canonical on-disk table layout shared by every storage backend.
//
// The storage layer moves flat string-keyed rows; entities are the typed view
// the repository layer exposes. Column order in the header slices is the
// on-disk contract: backends compare headers positionally to decide whether a
// sheet needs its header rewritten.
package types
