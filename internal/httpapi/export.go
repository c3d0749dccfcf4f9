package httpapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/supplify/crm/pkg/types"
)

// serveCSV writes rows as a CSV attachment in the table's canonical column
// order. Missing cells render empty.
func (s *Server) serveCSV(w http.ResponseWriter, table string, rows []types.Row) {
	header := types.TableHeaders[table]
	filename := fmt.Sprintf("%s-%s.csv", table, time.Now().UTC().Format("2006-01-02"))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := csv.NewWriter(w)
	cw.Write(header)
	for _, rec := range rows {
		cells := make([]string, len(header))
		for i, col := range header {
			cells[i] = rec[col]
		}
		cw.Write(cells)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.log.Warn("csv export interrupted", zap.String("table", table), zap.Error(err))
	}
}

func (s *Server) handleExport(table string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.repo.Search(r.Context(), table, "")
		if err != nil {
			s.writeRepoErr(w, err)
			return
		}
		s.serveCSV(w, table, rows)
	}
}
