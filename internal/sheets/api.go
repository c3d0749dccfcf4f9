// Package sheets implements the Google Sheets storage backend: one sheet per
// table, a header row, and data from row 2 down. Remote calls are wrapped in
// a bounded retry and reads go through a short-TTL cache that degrades to
// stale data when the remote store is unavailable.
package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/supplify/crm/pkg/types"
)

// gridAPI is the seam between the store and the spreadsheet service. The
// production implementation talks to the Sheets API; tests substitute a fake.
// Row and column indices are 0-based grid coordinates (header row = 0).
type gridAPI interface {
	// Sheets returns the spreadsheet's sheet titles mapped to internal ids.
	Sheets(ctx context.Context) (map[string]int64, error)

	// AddSheet creates a new empty sheet with the given title.
	AddSheet(ctx context.Context, title string) error

	// GetValues reads a range in A1 notation. Trailing empty cells may be
	// omitted from each returned row.
	GetValues(ctx context.Context, rng string) ([][]string, error)

	// UpdateValues writes values into a range in A1 notation.
	UpdateValues(ctx context.Context, rng string, values [][]string) error

	// Append appends one row after the last data row of the given range.
	Append(ctx context.Context, rng string, values []string) error

	// DeleteRows removes grid rows [start, end) from the sheet with the
	// given internal id.
	DeleteRows(ctx context.Context, sheetID int64, start, end int64) error
}

// googleGrid implements gridAPI against a live spreadsheet.
type googleGrid struct {
	svc           *sheetsv4.Service
	spreadsheetID string
}

// newGoogleGrid authenticates with the service-account key from cfg and
// returns a gridAPI bound to the configured spreadsheet.
func newGoogleGrid(ctx context.Context, cfg types.Config) (gridAPI, error) {
	creds := []byte(cfg.CredentialsJSON)
	if len(creds) == 0 {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		creds = data
	}

	jwt, err := google.JWTConfigFromJSON(creds, sheetsv4.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	svc, err := sheetsv4.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &googleGrid{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

func (g *googleGrid) Sheets(ctx context.Context) (map[string]int64, error) {
	meta, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			out[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	return out, nil
}

func (g *googleGrid) AddSheet(ctx context.Context, title string) error {
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			AddSheet: &sheetsv4.AddSheetRequest{
				Properties: &sheetsv4.SheetProperties{Title: title},
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return err
}

func (g *googleGrid) GetValues(ctx context.Context, rng string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		out = append(out, cells)
	}
	return out, nil
}

func (g *googleGrid) UpdateValues(ctx context.Context, rng string, values [][]string) error {
	vr := &sheetsv4.ValueRange{Values: toAnyRows(values)}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (g *googleGrid) Append(ctx context.Context, rng string, values []string) error {
	vr := &sheetsv4.ValueRange{Values: toAnyRows([][]string{values})}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (g *googleGrid) DeleteRows(ctx context.Context, sheetID int64, start, end int64) error {
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			DeleteDimension: &sheetsv4.DeleteDimensionRequest{
				Range: &sheetsv4.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: start,
					EndIndex:   end,
				},
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return err
}

func toAnyRows(values [][]string) [][]any {
	out := make([][]any, len(values))
	for i, row := range values {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return out
}
