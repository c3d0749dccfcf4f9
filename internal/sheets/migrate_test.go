package sheets

import (
	"context"
	"strings"
	"testing"

	"github.com/supplify/crm/pkg/types"
)

func legacyCompaniesHeader() []string {
	return []string{"id", "name", "status", "segment", "size", "owner", "source", "notes", "createdAt", "updatedAt"}
}

func TestIsLegacyCompaniesHeader(t *testing.T) {
	cases := []struct {
		name   string
		header []string
		want   bool
	}{
		{"legacy full", legacyCompaniesHeader(), true},
		{"status only", []string{"id", "name", "status"}, true},
		{"segment only", []string{"id", "name", "segment"}, true},
		{"size only", []string{"id", "name", "size"}, true},
		{"modern", types.TableHeaders[types.TableCompanies], false},
		{"status plus stage", []string{"id", "name", "status", "stage"}, false},
		{"empty", nil, false},
		{"unrelated", []string{"id", "name", "owner"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isLegacyCompaniesHeader(tc.header); got != tc.want {
				t.Errorf("isLegacyCompaniesHeader(%v) = %v, want %v", tc.header, got, tc.want)
			}
		})
	}
}

func TestMigrationRewritesLegacyCompanies(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{
		legacyCompaniesHeader(),
		{"cmp_1", "Acme", "prospect", "SaaS", "50", "ana", "referral", "existing note", "2024-01-01T00:00:00.000Z", "2024-01-02T00:00:00.000Z"},
		{"cmp_2", "Beta", "lead", "", "", "", "", "", "2024-01-03T00:00:00.000Z", "2024-01-03T00:00:00.000Z"},
		{"", "", "", "", "", "", "", "", "", ""},
	})
	f.seed(types.TableDeals, [][]string{
		types.TableHeaders[types.TableDeals],
		// cmp_1 has two deals: the later updatedAt wins.
		{"deal_1", "cmp_1", "Rollout", "won", "", "", "", "", "", "", "", "2024-01-01T00:00:00.000Z", "2024-01-10T00:00:00.000Z"},
		{"deal_2", "cmp_1", "Pilot", "negotiation", "", "", "", "", "", "", "", "2024-01-01T00:00:00.000Z", "2024-02-01T00:00:00.000Z"},
	})
	s := newTestStore(f)

	if err := s.EnsureTable(context.Background(), types.TableCompanies); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	grid := f.rawGrid(types.TableCompanies)
	newHeader := types.TableHeaders[types.TableCompanies]

	// Header rewritten to the new shape, padded to the old width so dropped
	// legacy columns are cleared.
	if len(grid[0]) < len(newHeader) {
		t.Fatalf("header too short: %v", grid[0])
	}
	for i, col := range newHeader {
		if grid[0][i] != col {
			t.Fatalf("header[%d] = %q, want %q", i, grid[0][i], col)
		}
	}
	for _, cell := range grid[0][len(newHeader):] {
		if cell != "" {
			t.Errorf("leftover legacy header cell %q not cleared", cell)
		}
	}

	row1 := mapRow(newHeader, grid[1])
	if row1["stage"] != types.StageNegotiation {
		t.Errorf("cmp_1 stage = %q, want stage of latest deal", row1["stage"])
	}
	wantNotes := "existing note\nSegmento (antigo): SaaS\nTamanho (antigo): 50"
	if row1["notes"] != wantNotes {
		t.Errorf("cmp_1 notes = %q, want %q", row1["notes"], wantNotes)
	}
	if row1["createdAt"] != "2024-01-01T00:00:00.000Z" || row1["updatedAt"] != "2024-01-02T00:00:00.000Z" {
		t.Errorf("cmp_1 timestamps not preserved: %v", row1)
	}

	// No deals: stage falls back to the legacy status mapping, notes untouched.
	row2 := mapRow(newHeader, grid[2])
	if row2["stage"] != types.StageNew {
		t.Errorf("cmp_2 stage = %q, want %q", row2["stage"], types.StageNew)
	}
	if row2["notes"] != "" {
		t.Errorf("cmp_2 notes = %q, want empty", row2["notes"])
	}

	// The blank row keeps its position but stays blank after the rewrite.
	for i := 3; i < len(grid); i++ {
		if !isBlankRow(grid[i]) {
			t.Errorf("row %d should be blank after rewrite: %v", i, grid[i])
		}
	}

	if !s.migrated[types.TableCompanies] {
		t.Error("migrated flag not set after success")
	}
}

func TestMigrationOverwritesRowsBelowBlankRow(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{
		legacyCompaniesHeader(),
		{"cmp_1", "Acme", "active", "", "", "", "", "", "2024-01-01T00:00:00.000Z", "2024-01-01T00:00:00.000Z"},
		{"", "", "", "", "", "", "", "", "", ""},
		{"cmp_2", "Beta", "lead", "", "", "", "", "", "2024-01-02T00:00:00.000Z", "2024-01-02T00:00:00.000Z"},
	})
	f.seed(types.TableDeals, [][]string{types.TableHeaders[types.TableDeals]})
	s := newTestStore(f)

	res, err := s.List(context.Background(), types.TableCompanies)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	counts := make(map[string]int)
	for _, rec := range res.Rows {
		counts[rec["id"]]++
	}
	if counts["cmp_1"] != 1 || counts["cmp_2"] != 1 {
		t.Fatalf("ids after migration = %v, want each exactly once", counts)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows after migration = %d, want 2: %v", len(res.Rows), res.Rows)
	}

	// The row below the blank was rewritten too: stage derived from the
	// legacy status, timestamps preserved, no status value left in place.
	for _, rec := range res.Rows {
		if rec["id"] != "cmp_2" {
			continue
		}
		if rec["stage"] != types.StageNew {
			t.Errorf("cmp_2 stage = %q, want %q", rec["stage"], types.StageNew)
		}
		if rec["createdAt"] != "2024-01-02T00:00:00.000Z" {
			t.Errorf("cmp_2 createdAt = %q, want preserved", rec["createdAt"])
		}
	}

	grid := f.rawGrid(types.TableCompanies)
	if len(grid) != 4 {
		t.Fatalf("grid rows = %d, want 4 (header, row, blank, row)", len(grid))
	}
	if !isBlankRow(grid[2]) {
		t.Errorf("interior blank row was not kept in place: %v", grid[2])
	}
	if grid[3][0] != "cmp_2" || grid[3][2] != types.StageNew {
		t.Errorf("row below blank not rewritten: %v", grid[3])
	}
}

func TestMigrationTieBreaksOnEarlierDealRow(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{
		legacyCompaniesHeader(),
		{"cmp_1", "Acme", "lost", "", "", "", "", "", "", ""},
	})
	f.seed(types.TableDeals, [][]string{
		types.TableHeaders[types.TableDeals],
		{"deal_1", "cmp_1", "Pilot", "proposal", "", "", "", "", "", "", "", "", "2024-02-01T00:00:00.000Z"},
		{"deal_2", "cmp_1", "Rollout", "won", "", "", "", "", "", "", "", "", "2024-02-01T00:00:00.000Z"},
	})
	s := newTestStore(f)

	if err := s.EnsureTable(context.Background(), types.TableCompanies); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	grid := f.rawGrid(types.TableCompanies)
	row := mapRow(types.TableHeaders[types.TableCompanies], grid[1])
	if row["stage"] != types.StageProposal {
		t.Errorf("stage = %q, want the earlier row to win the tie", row["stage"])
	}
}

func TestMigrationSkipsModernHeader(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{
		types.TableHeaders[types.TableCompanies],
		{"cmp_1", "Acme", "won"},
	})
	s := newTestStore(f)

	if err := s.EnsureTable(context.Background(), types.TableCompanies); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}

	if f.count("UpdateValues") != 0 {
		t.Error("modern table was rewritten")
	}
	grid := f.rawGrid(types.TableCompanies)
	if grid[1][2] != "won" {
		t.Errorf("data changed: %v", grid[1])
	}
	if !s.migrated[types.TableCompanies] {
		t.Error("migration check should run once and record the result")
	}
}

func TestMigrationNotRetriedAfterSuccess(t *testing.T) {
	f := newFakeGrid()
	f.seed(types.TableCompanies, [][]string{
		legacyCompaniesHeader(),
		{"cmp_1", "Acme", "active", "", "", "", "", "", "", ""},
	})
	f.seed(types.TableDeals, [][]string{types.TableHeaders[types.TableDeals]})
	s := newTestStore(f)
	ctx := context.Background()

	if err := s.maybeMigrateCompanies(ctx); err != nil {
		t.Fatalf("maybeMigrateCompanies: %v", err)
	}
	writes := f.count("UpdateValues")

	if err := s.maybeMigrateCompanies(ctx); err != nil {
		t.Fatalf("second maybeMigrateCompanies: %v", err)
	}
	if f.count("UpdateValues") != writes {
		t.Error("migration ran twice in one process")
	}
}

func TestMigrateCompanyRowNotesFolding(t *testing.T) {
	legacy := types.Row{
		"id":     "cmp_1",
		"name":   "Acme",
		"status": "prospect",
		"size":   "200",
	}
	migrated := migrateCompanyRow(legacy, nil)
	if migrated["stage"] != types.StageQualified {
		t.Errorf("stage = %q", migrated["stage"])
	}
	if migrated["notes"] != "Tamanho (antigo): 200" {
		t.Errorf("notes = %q", migrated["notes"])
	}
	if strings.Contains(migrated["notes"], "Segmento") {
		t.Error("empty segment must not be folded into notes")
	}
}
