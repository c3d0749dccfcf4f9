package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/supplify/crm/pkg/types"
)

// maybeMigrateCompanies upgrades the companies table from its legacy shape
// (separate status/segment/size columns, no stage) to the current one. The
// rewrite is destructive and runs at most once per process: the migrated flag
// is only set after success, so a failed attempt is retried on the next
// table access.
func (s *Store) maybeMigrateCompanies(ctx context.Context) error {
	s.mu.Lock()
	done := s.migrated[types.TableCompanies]
	s.mu.Unlock()
	if done {
		return nil
	}

	oldHeader, err := s.fetchHeader(ctx, types.TableCompanies)
	if err != nil {
		return err
	}
	if !isLegacyCompaniesHeader(oldHeader) {
		s.mu.Lock()
		s.migrated[types.TableCompanies] = true
		s.mu.Unlock()
		return nil
	}

	s.log.Info("migrating companies table to stage-based schema",
		zap.Strings("legacy_header", oldHeader))

	raw, err := s.fetchRaw(ctx, types.TableCompanies)
	if err != nil {
		return err
	}

	dealStages, err := s.latestDealStages(ctx)
	if err != nil {
		return err
	}

	newHeader := types.TableHeaders[types.TableCompanies]
	// Pad to the widest header so cells left over from dropped legacy
	// columns are cleared by the rewrite.
	width := len(newHeader)
	if len(oldHeader) > width {
		width = len(oldHeader)
	}

	values := [][]string{padCells(append([]string(nil), newHeader...), width)}
	for _, cells := range raw {
		if isBlankRow(cells) {
			// Keep the row position: the rewrite must overwrite every
			// pre-existing row, or legacy rows below a blank would survive.
			values = append(values, make([]string, width))
			continue
		}
		legacy := mapRow(oldHeader, cells)
		migrated := migrateCompanyRow(legacy, dealStages)
		values = append(values, padCells(rowToCells(newHeader, migrated), width))
	}

	rng := fmt.Sprintf("%s!A1:%s%d", types.TableCompanies, columnLetter(width-1), len(values))
	err = s.withRetry(ctx, func() error {
		return s.api.UpdateValues(ctx, rng, values)
	})
	if err != nil {
		return err
	}

	s.cache.invalidate(types.TableCompanies)
	s.mu.Lock()
	s.migrated[types.TableCompanies] = true
	s.mu.Unlock()

	s.log.Info("companies table migrated", zap.Int("rows", len(values)-1))
	return nil
}

// isLegacyCompaniesHeader reports whether the header carries any legacy
// column while lacking the stage column.
func isLegacyCompaniesHeader(header []string) bool {
	hasLegacy := false
	for _, col := range header {
		switch col {
		case types.LegacyColStatus, types.LegacyColSegment, types.LegacyColSize:
			hasLegacy = true
		case "stage":
			return false
		}
	}
	return hasLegacy
}

// latestDealStages maps each company id to the stage of its most recently
// updated deal. Timestamps are zero-padded ISO-8601, so the lexicographic
// compare picks the latest; the earlier sheet row wins ties.
func (s *Store) latestDealStages(ctx context.Context) (map[string]string, error) {
	raw, err := s.fetchRaw(ctx, types.TableDeals)
	if err != nil {
		return nil, err
	}

	header := types.TableHeaders[types.TableDeals]
	type latest struct {
		stage     string
		updatedAt string
	}
	seen := make(map[string]latest)
	for _, cells := range raw {
		if isBlankRow(cells) {
			continue
		}
		deal := mapRow(header, cells)
		companyID := deal["companyId"]
		if companyID == "" || deal["stage"] == "" {
			continue
		}
		prev, ok := seen[companyID]
		if !ok || deal["updatedAt"] > prev.updatedAt {
			seen[companyID] = latest{stage: deal["stage"], updatedAt: deal["updatedAt"]}
		}
	}

	out := make(map[string]string, len(seen))
	for id, l := range seen {
		out[id] = l.stage
	}
	return out, nil
}

// migrateCompanyRow derives the new-shape row from a legacy one: the stage
// comes from the company's latest deal when one exists, otherwise from the
// legacy status mapping; non-empty segment/size values are folded into notes
// as labeled lines instead of being dropped.
func migrateCompanyRow(legacy types.Row, dealStages map[string]string) types.Row {
	stage, ok := dealStages[legacy["id"]]
	if !ok {
		stage = types.MapLegacyStatus(legacy[types.LegacyColStatus])
	}

	notes := legacy["notes"]
	var extra []string
	if v := legacy[types.LegacyColSegment]; v != "" {
		extra = append(extra, "Segmento (antigo): "+v)
	}
	if v := legacy[types.LegacyColSize]; v != "" {
		extra = append(extra, "Tamanho (antigo): "+v)
	}
	if len(extra) > 0 {
		if notes != "" {
			notes += "\n"
		}
		notes += strings.Join(extra, "\n")
	}

	return types.Row{
		"id":        legacy["id"],
		"name":      legacy["name"],
		"stage":     stage,
		"owner":     legacy["owner"],
		"source":    legacy["source"],
		"notes":     notes,
		"createdAt": legacy["createdAt"],
		"updatedAt": legacy["updatedAt"],
	}
}

func padCells(cells []string, width int) []string {
	for len(cells) < width {
		cells = append(cells, "")
	}
	return cells
}
