package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/supplify/crm/pkg/types"
)

// Store implements types.Store on top of a spreadsheet. All mutable process
// state (read cache, ensured/migrated sets) lives on the instance; construct
// one per process, or one per test for isolation.
type Store struct {
	api           gridAPI
	log           *zap.Logger
	cache         *readCache
	retrySchedule []time.Duration

	mu       sync.Mutex
	ensured  map[string]bool
	migrated map[string]bool
}

// New opens a Store against the spreadsheet described by cfg.
func New(ctx context.Context, cfg types.Config, log *zap.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend != types.BackendSheets {
		return nil, types.ErrNotConfigured
	}
	api, err := newGoogleGrid(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newStore(api, log), nil
}

// newStore wires a Store to an arbitrary gridAPI. Tests use this with a fake.
func newStore(api gridAPI, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		api:           api,
		log:           log,
		cache:         newReadCache(defaultCacheTTL),
		retrySchedule: defaultRetrySchedule,
		ensured:       make(map[string]bool),
		migrated:      make(map[string]bool),
	}
}

// EnsureTable creates the sheet if missing and writes the canonical header
// when the current one differs in length or content. For the companies table
// the legacy schema migration runs first, so the header check sees the
// post-migration shape. Idempotent: remote work happens once per process.
func (s *Store) EnsureTable(ctx context.Context, table string) error {
	header, ok := types.TableHeaders[table]
	if !ok {
		return types.ErrTableUnknown
	}

	s.mu.Lock()
	done := s.ensured[table]
	s.mu.Unlock()
	if done {
		return nil
	}

	var sheetIDs map[string]int64
	err := s.withRetry(ctx, func() error {
		var err error
		sheetIDs, err = s.api.Sheets(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("list sheets: %w", err)
	}

	if _, exists := sheetIDs[table]; !exists {
		if err := s.withRetry(ctx, func() error { return s.api.AddSheet(ctx, table) }); err != nil {
			return fmt.Errorf("create sheet %s: %w", table, err)
		}
	}

	if table == types.TableCompanies {
		if err := s.maybeMigrateCompanies(ctx); err != nil {
			return fmt.Errorf("migrate companies: %w", err)
		}
	}

	current, err := s.fetchHeader(ctx, table)
	if err != nil {
		return fmt.Errorf("read header %s: %w", table, err)
	}
	if headerDiffers(current, header) {
		rng := fmt.Sprintf("%s!A1:%s1", table, columnLetter(len(header)-1))
		row := append([]string(nil), header...)
		if err := s.withRetry(ctx, func() error {
			return s.api.UpdateValues(ctx, rng, [][]string{row})
		}); err != nil {
			return fmt.Errorf("write header %s: %w", table, err)
		}
	}

	s.mu.Lock()
	s.ensured[table] = true
	s.mu.Unlock()
	return nil
}

// List returns the table's data rows. A fresh cache entry is served without
// a remote call; on remote failure the last cached snapshot is returned with
// Stale set, or an error when nothing was ever cached.
func (s *Store) List(ctx context.Context, table string) (types.ReadResult, error) {
	if !types.IsStandardTable(table) {
		return types.ReadResult{}, types.ErrTableUnknown
	}

	if rows, ok := s.cache.fresh(table); ok {
		return types.ReadResult{Rows: rows}, nil
	}

	rows, err := s.fetchTable(ctx, table)
	if err != nil {
		s.log.Warn("sheets read failed, serving degraded data",
			zap.String("table", table), zap.Error(err))
		if stale, ok := s.cache.last(table); ok {
			return types.ReadResult{Rows: stale, Stale: true}, nil
		}
		return types.ReadResult{}, err
	}

	s.cache.put(table, rows)
	return types.ReadResult{Rows: rows}, nil
}

// Upsert updates the first data row whose matchBy columns all equal rec's
// values, or appends when none matches. A successful write invalidates the
// table's cache entry.
func (s *Store) Upsert(ctx context.Context, table string, rec types.Row, matchBy []string) error {
	header, ok := types.TableHeaders[table]
	if !ok {
		return types.ErrTableUnknown
	}
	if err := s.EnsureTable(ctx, table); err != nil {
		return err
	}

	raw, err := s.fetchRaw(ctx, table)
	if err != nil {
		return fmt.Errorf("read rows %s: %w", table, err)
	}

	matchIdx := findMatch(raw, header, rec, matchBy)
	cells := rowToCells(header, rec)

	if matchIdx >= 0 {
		rowNum := matchIdx + 2
		rng := fmt.Sprintf("%s!A%d:%s%d", table, rowNum, columnLetter(len(header)-1), rowNum)
		err = s.withRetry(ctx, func() error {
			return s.api.UpdateValues(ctx, rng, [][]string{cells})
		})
	} else {
		err = s.withRetry(ctx, func() error {
			return s.api.Append(ctx, fmt.Sprintf("%s!A2", table), cells)
		})
	}
	if err != nil {
		return fmt.Errorf("write row %s: %w", table, err)
	}

	s.cache.invalidate(table)
	return nil
}

// Remove deletes the data row whose id column equals id. Returns false when
// no row matches.
func (s *Store) Remove(ctx context.Context, table string, id string) (bool, error) {
	header, ok := types.TableHeaders[table]
	if !ok {
		return false, types.ErrTableUnknown
	}
	if err := s.EnsureTable(ctx, table); err != nil {
		return false, err
	}

	var sheetIDs map[string]int64
	err := s.withRetry(ctx, func() error {
		var err error
		sheetIDs, err = s.api.Sheets(ctx)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("list sheets: %w", err)
	}
	sheetID, exists := sheetIDs[table]
	if !exists {
		return false, nil
	}

	raw, err := s.fetchRaw(ctx, table)
	if err != nil {
		return false, fmt.Errorf("read rows %s: %w", table, err)
	}

	idCol := columnIndex(header, "id")
	matchIdx := -1
	for i, cells := range raw {
		if cellAt(cells, idCol) == id {
			matchIdx = i
			break
		}
	}
	if matchIdx < 0 {
		return false, nil
	}

	// Grid rows are 0-based and include the header, so data row i is grid
	// row i+1.
	start := int64(matchIdx + 1)
	err = s.withRetry(ctx, func() error {
		return s.api.DeleteRows(ctx, sheetID, start, start+1)
	})
	if err != nil {
		return false, fmt.Errorf("delete row %s: %w", table, err)
	}

	s.cache.invalidate(table)
	return true, nil
}

// fetchTable ensures the table and returns its data rows mapped to the
// canonical header, blank rows filtered out.
func (s *Store) fetchTable(ctx context.Context, table string) ([]types.Row, error) {
	if err := s.EnsureTable(ctx, table); err != nil {
		return nil, err
	}
	raw, err := s.fetchRaw(ctx, table)
	if err != nil {
		return nil, err
	}

	header := types.TableHeaders[table]
	rows := make([]types.Row, 0, len(raw))
	for _, cells := range raw {
		if isBlankRow(cells) {
			continue
		}
		rows = append(rows, mapRow(header, cells))
	}
	return rows, nil
}

// fetchRaw reads the table's data rows as positional cell slices, blanks
// included, so indices line up with sheet row numbers.
func (s *Store) fetchRaw(ctx context.Context, table string) ([][]string, error) {
	var raw [][]string
	err := s.withRetry(ctx, func() error {
		var err error
		raw, err = s.api.GetValues(ctx, fmt.Sprintf("%s!A2:Z", table))
		return err
	})
	return raw, err
}

func (s *Store) fetchHeader(ctx context.Context, table string) ([]string, error) {
	var rows [][]string
	err := s.withRetry(ctx, func() error {
		var err error
		rows, err = s.api.GetValues(ctx, fmt.Sprintf("%s!1:1", table))
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// columnLetter converts a 0-based column index to its letter (0 = "A").
// Tables here never exceed 26 columns.
func columnLetter(index int) string {
	return string(rune('A' + index))
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

func headerDiffers(current, want []string) bool {
	if len(current) != len(want) {
		return true
	}
	for i, h := range want {
		if current[i] != h {
			return true
		}
	}
	return false
}

func mapRow(header []string, cells []string) types.Row {
	rec := make(types.Row, len(header))
	for i, col := range header {
		rec[col] = cellAt(cells, i)
	}
	return rec
}

func rowToCells(header []string, rec types.Row) []string {
	cells := make([]string, len(header))
	for i, col := range header {
		cells[i] = rec[col]
	}
	return cells
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func findMatch(raw [][]string, header []string, rec types.Row, matchBy []string) int {
	for i, cells := range raw {
		matched := true
		for _, key := range matchBy {
			idx := columnIndex(header, key)
			if idx < 0 || cellAt(cells, idx) != rec[key] {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}
