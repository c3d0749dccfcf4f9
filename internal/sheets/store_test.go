package sheets

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/supplify/crm/pkg/types"
)

// fakeGrid implements gridAPI over in-memory cell grids. Each grid includes
// the header row at index 0, matching sheet row numbering. GetValues trims
// trailing empty cells like the real API does.
type fakeGrid struct {
	mu     sync.Mutex
	sheets map[string]int64
	grids  map[string][][]string
	calls  map[string]int
	errs   map[string]error
	nextID int64
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{
		sheets: make(map[string]int64),
		grids:  make(map[string][][]string),
		calls:  make(map[string]int),
		errs:   make(map[string]error),
	}
}

func (f *fakeGrid) seed(title string, grid [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sheets[title] = f.nextID
	f.grids[title] = grid
}

func (f *fakeGrid) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeGrid) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// rawGrid returns the stored cells without the read-side trimming.
func (f *fakeGrid) rawGrid(title string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grids[title]
}

func (f *fakeGrid) record(method string) error {
	f.calls[method]++
	return f.errs[method]
}

func (f *fakeGrid) Sheets(_ context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Sheets"); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(f.sheets))
	for k, v := range f.sheets {
		out[k] = v
	}
	return out, nil
}

func (f *fakeGrid) AddSheet(_ context.Context, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddSheet"); err != nil {
		return err
	}
	f.nextID++
	f.sheets[title] = f.nextID
	f.grids[title] = nil
	return nil
}

func (f *fakeGrid) GetValues(_ context.Context, rng string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetValues"); err != nil {
		return nil, err
	}
	table, ref := splitRange(rng)
	grid := f.grids[table]
	var rows [][]string
	switch {
	case ref == "1:1":
		if len(grid) > 0 {
			rows = grid[:1]
		}
	case strings.HasPrefix(ref, "A2:"):
		if len(grid) > 1 {
			rows = grid[1:]
		}
	default:
		rows = grid
	}
	out := make([][]string, 0, len(rows))
	for _, cells := range rows {
		out = append(out, trimTrailingEmpty(cells))
	}
	return out, nil
}

func (f *fakeGrid) UpdateValues(_ context.Context, rng string, values [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateValues"); err != nil {
		return err
	}
	table, ref := splitRange(rng)
	start := startRow(ref) - 1
	grid := f.grids[table]
	for i, cells := range values {
		idx := start + i
		for len(grid) <= idx {
			grid = append(grid, nil)
		}
		grid[idx] = append([]string(nil), cells...)
	}
	f.grids[table] = grid
	return nil
}

func (f *fakeGrid) Append(_ context.Context, rng string, values []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Append"); err != nil {
		return err
	}
	table, _ := splitRange(rng)
	f.grids[table] = append(f.grids[table], append([]string(nil), values...))
	return nil
}

func (f *fakeGrid) DeleteRows(_ context.Context, sheetID int64, start, end int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteRows"); err != nil {
		return err
	}
	for title, id := range f.sheets {
		if id != sheetID {
			continue
		}
		grid := f.grids[title]
		if start < 0 || end > int64(len(grid)) {
			return nil
		}
		f.grids[title] = append(grid[:start], grid[end:]...)
		return nil
	}
	return nil
}

func splitRange(rng string) (table, ref string) {
	table, ref, _ = strings.Cut(rng, "!")
	return table, ref
}

// startRow extracts the 1-based row number from a range reference such as
// "A5:H5". Writes in these tests always start at column A.
func startRow(ref string) int {
	first, _, _ := strings.Cut(ref, ":")
	n, _ := strconv.Atoi(strings.TrimLeft(first, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	return n
}

func trimTrailingEmpty(cells []string) []string {
	end := len(cells)
	for end > 0 && cells[end-1] == "" {
		end--
	}
	return append([]string(nil), cells[:end]...)
}

// newTestStore wires a Store to the fake with retries disabled.
func newTestStore(f *fakeGrid) *Store {
	s := newStore(f, nil)
	s.retrySchedule = nil
	return s
}

func companiesHeader() []string {
	return append([]string(nil), types.TableHeaders[types.TableCompanies]...)
}

func TestEnsureTableCreatesSheetAndHeader(t *testing.T) {
	f := newFakeGrid()
	s := newTestStore(f)
	ctx := context.Background()

	if err := s.EnsureTable(ctx, types.TableCompanies); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	if _, ok := f.sheets[types.TableCompanies]; !ok {
		t.Fatal("sheet was not created")
	}
	grid := f.rawGrid(types.TableCompanies)
	if len(grid) == 0 {
		t.Fatal("header row was not written")
	}
	if got, want := strings.Join(grid[0], ","), strings.Join(companiesHeader(), ","); got != want {
		t.Errorf("header = %q, want %q", got, want)
	}

	// Second call is a no-op: no further remote work.
	sheetsCalls := f.count("Sheets")
	if err := s.EnsureTable(ctx, types.TableCompanies); err != nil {
		t.Fatalf("EnsureTable again: %v", err)
	}
	if f.count("Sheets") != sheetsCalls {
		t.Error("EnsureTable repeated remote calls for an ensured table")
	}
}

func TestEnsureTableUnknown(t *testing.T) {
	s := newTestStore(newFakeGrid())
	if err := s.EnsureTable(context.Background(), "invoices"); err != types.ErrTableUnknown {
		t.Errorf("EnsureTable(invoices) = %v, want ErrTableUnknown", err)
	}
}

func TestListMapsRowsAndFiltersBlanks(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{
		companiesHeader(),
		{"cmp_1", "Acme", "new", "ana"},
		{"", "", "", ""},
		{"   ", ""},
		{"cmp_2", "Beta", "won", "", "referral", "notes", "2024-01-01T00:00:00.000Z", "2024-01-02T00:00:00.000Z"},
	})
	s := newTestStore(f)

	res, err := s.List(context.Background(), types.TableCompanies)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Stale {
		t.Error("fresh read reported stale")
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(res.Rows), res.Rows)
	}
	if res.Rows[0]["name"] != "Acme" || res.Rows[0]["owner"] != "ana" {
		t.Errorf("row 0 = %v", res.Rows[0])
	}
	// Short rows read as empty cells for missing columns.
	if res.Rows[0]["source"] != "" || res.Rows[0]["updatedAt"] != "" {
		t.Errorf("short row not padded: %v", res.Rows[0])
	}
	if res.Rows[1]["source"] != "referral" {
		t.Errorf("row 1 = %v", res.Rows[1])
	}
}

func TestListServesFreshCache(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{companiesHeader(), {"cmp_1", "Acme"}})
	s := newTestStore(f)
	ctx := context.Background()

	if _, err := s.List(ctx, types.TableCompanies); err != nil {
		t.Fatalf("List: %v", err)
	}
	reads := f.count("GetValues")

	res, err := s.List(ctx, types.TableCompanies)
	if err != nil {
		t.Fatalf("second List: %v", err)
	}
	if f.count("GetValues") != reads {
		t.Error("fresh cache entry still hit the remote store")
	}
	if len(res.Rows) != 1 || res.Rows[0]["id"] != "cmp_1" {
		t.Errorf("cached rows = %v", res.Rows)
	}
}

func TestListServesStaleOnError(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{companiesHeader(), {"cmp_1", "Acme"}})
	s := newTestStore(f)
	ctx := context.Background()

	if _, err := s.List(ctx, types.TableCompanies); err != nil {
		t.Fatalf("List: %v", err)
	}

	// Expire the entry and break the remote store.
	s.cache.mu.Lock()
	e := s.cache.entries[types.TableCompanies]
	e.fetchedAt = time.Now().Add(-time.Minute)
	s.cache.entries[types.TableCompanies] = e
	s.cache.mu.Unlock()
	f.fail("GetValues", errTransient())

	res, err := s.List(ctx, types.TableCompanies)
	if err != nil {
		t.Fatalf("List should degrade to stale data, got %v", err)
	}
	if !res.Stale {
		t.Error("degraded read not marked stale")
	}
	if len(res.Rows) != 1 || res.Rows[0]["id"] != "cmp_1" {
		t.Errorf("stale rows = %v", res.Rows)
	}
}

func TestListErrorsWithoutCache(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{companiesHeader()})
	f.fail("GetValues", errTransient())
	s := newTestStore(f)

	if _, err := s.List(context.Background(), types.TableCompanies); err == nil {
		t.Fatal("expected error when nothing was ever cached")
	}
}

func TestUpsertUpdatesMatchedRow(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{
		companiesHeader(),
		{"cmp_1", "Acme", "new"},
		{"cmp_2", "Beta", "won"},
	})
	s := newTestStore(f)
	ctx := context.Background()

	rec := types.Row{"id": "cmp_2", "name": "Beta Labs", "stage": "won"}
	if err := s.Upsert(ctx, types.TableCompanies, rec, []string{"id"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if f.count("Append") != 0 {
		t.Error("matched upsert appended instead of updating")
	}
	grid := f.rawGrid(types.TableCompanies)
	if grid[2][1] != "Beta Labs" {
		t.Errorf("row not updated in place: %v", grid[2])
	}
	if len(grid) != 3 {
		t.Errorf("row count changed: %d", len(grid))
	}
}

func TestUpsertAppendsWhenNoMatch(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{companiesHeader(), {"cmp_1", "Acme"}})
	s := newTestStore(f)
	ctx := context.Background()

	rec := types.Row{"id": "cmp_9", "name": "Gamma"}
	if err := s.Upsert(ctx, types.TableCompanies, rec, []string{"id"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if f.count("Append") != 1 {
		t.Fatalf("expected one append, got %d", f.count("Append"))
	}
	grid := f.rawGrid(types.TableCompanies)
	if len(grid) != 3 || grid[2][0] != "cmp_9" {
		t.Errorf("appended grid = %v", grid)
	}
}

func TestUpsertInvalidatesCache(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{companiesHeader(), {"cmp_1", "Acme"}})
	s := newTestStore(f)
	ctx := context.Background()

	if _, err := s.List(ctx, types.TableCompanies); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := s.Upsert(ctx, types.TableCompanies, types.Row{"id": "cmp_1", "name": "Acme Corp"}, []string{"id"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	res, err := s.List(ctx, types.TableCompanies)
	if err != nil {
		t.Fatalf("List after write: %v", err)
	}
	if res.Rows[0]["name"] != "Acme Corp" {
		t.Errorf("read after write served stale cache: %v", res.Rows[0])
	}
}

func TestRemove(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{
		companiesHeader(),
		{"cmp_1", "Acme"},
		{"cmp_2", "Beta"},
	})
	s := newTestStore(f)
	ctx := context.Background()

	removed, err := s.Remove(ctx, types.TableCompanies, "cmp_2")
	if err != nil || !removed {
		t.Fatalf("Remove = %v, %v", removed, err)
	}
	grid := f.rawGrid(types.TableCompanies)
	if len(grid) != 2 || grid[1][0] != "cmp_1" {
		t.Errorf("grid after delete = %v", grid)
	}

	removed, err = s.Remove(ctx, types.TableCompanies, "cmp_404")
	if err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
	if removed {
		t.Error("Remove reported success for a missing id")
	}
}

func TestColumnLetter(t *testing.T) {
	if columnLetter(0) != "A" || columnLetter(7) != "H" || columnLetter(12) != "M" {
		t.Error("columnLetter mapping broken")
	}
}
