package repo

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/supplify/crm/pkg/types"
)

// SearchResults groups the typed matches of a cross-table search.
type SearchResults struct {
	Companies []types.Company `json:"companies"`
	Contacts  []types.Contact `json:"contacts"`
	Deals     []types.Deal    `json:"deals"`
}

// Search returns the rows of table whose values contain query as a
// case-insensitive substring, in any field. An empty query returns all rows.
// No ranking, no tokenization.
func (r *Repository) Search(ctx context.Context, table string, query string) ([]types.Row, error) {
	if !types.IsStandardTable(table) {
		return nil, types.ErrTableUnknown
	}

	rows := r.listRows(ctx, table)
	needle := types.NormalizeKey(query)
	if needle == "" {
		return rows, nil
	}

	var out []types.Row
	for _, rec := range rows {
		for _, v := range rec {
			if strings.Contains(strings.ToLower(v), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out, nil
}

// SearchAll runs the substring search over companies, contacts and deals
// concurrently and returns typed results.
func (r *Repository) SearchAll(ctx context.Context, query string) (SearchResults, error) {
	var results SearchResults
	var g errgroup.Group

	g.Go(func() error {
		rows, err := r.Search(ctx, types.TableCompanies, query)
		if err != nil {
			return err
		}
		for _, rec := range rows {
			results.Companies = append(results.Companies, companyFromRow(rec))
		}
		return nil
	})
	g.Go(func() error {
		rows, err := r.Search(ctx, types.TableContacts, query)
		if err != nil {
			return err
		}
		for _, rec := range rows {
			results.Contacts = append(results.Contacts, contactFromRow(rec))
		}
		return nil
	})
	g.Go(func() error {
		rows, err := r.Search(ctx, types.TableDeals, query)
		if err != nil {
			return err
		}
		for _, rec := range rows {
			results.Deals = append(results.Deals, dealFromRow(rec))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return SearchResults{}, err
	}
	return results, nil
}
