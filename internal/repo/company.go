package repo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/supplify/crm/pkg/types"
)

// CompanyInput carries the caller-supplied fields of an upsert. ID is
// optional; when empty the company is matched by normalized name.
type CompanyInput struct {
	ID     string
	Name   string
	Stage  string
	Owner  string
	Source string
	Notes  string
}

// ListCompanies returns all companies, most recently updated first.
func (r *Repository) ListCompanies(ctx context.Context) []types.Company {
	rows := r.listRows(ctx, types.TableCompanies)
	companies := make([]types.Company, 0, len(rows))
	for _, rec := range rows {
		companies = append(companies, companyFromRow(rec))
	}
	sortByUpdatedAtDesc(companies, func(c types.Company) string { return c.UpdatedAt })
	return companies
}

// GetCompanyByID returns the company with the given id, or false.
func (r *Repository) GetCompanyByID(ctx context.Context, id string) (types.Company, bool) {
	for _, c := range r.ListCompanies(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return types.Company{}, false
}

// FindCompanyByName matches by case/whitespace-normalized name.
func (r *Repository) FindCompanyByName(ctx context.Context, name string) (types.Company, bool) {
	needle := types.NormalizeKey(name)
	for _, c := range r.ListCompanies(ctx) {
		if types.NormalizeKey(c.Name) == needle {
			return c, true
		}
	}
	return types.Company{}, false
}

// UpsertCompany creates or updates a company. An explicit ID matches by id;
// otherwise the normalized name is the natural key. On match createdAt is
// preserved and updatedAt refreshed; on no match a new cmp_ id is minted.
func (r *Repository) UpsertCompany(ctx context.Context, in CompanyInput) (types.Company, error) {
	if types.NormalizeText(in.Name) == "" {
		return types.Company{}, ErrNameRequired
	}

	now := types.NowISO()
	var existing types.Company
	var found bool
	if in.ID != "" {
		existing, found = r.GetCompanyByID(ctx, in.ID)
	} else {
		existing, found = r.FindCompanyByName(ctx, in.Name)
	}

	stage := in.Stage
	if !types.IsValidStage(stage) {
		stage = types.StageNew
	}

	company := types.Company{
		ID:        in.ID,
		Name:      in.Name,
		Stage:     stage,
		Owner:     in.Owner,
		Source:    in.Source,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if found {
		company.ID = existing.ID
		company.CreatedAt = existing.CreatedAt
	}
	if company.ID == "" {
		company.ID = types.NewID("cmp")
	}

	if err := r.store.Upsert(ctx, types.TableCompanies, companyToRow(company), []string{"id"}); err != nil {
		return types.Company{}, err
	}
	return company, nil
}

// DeleteCompany removes the company and every contact, deal and activity
// referencing it. Returns ErrNotFound when no company has the id; in that
// case no children are touched. Child deletes run as concurrent independent
// operations with no rollback: a partial failure can leave the company gone
// and some children orphaned.
func (r *Repository) DeleteCompany(ctx context.Context, id string) error {
	removed, err := r.store.Remove(ctx, types.TableCompanies, id)
	if err != nil {
		return err
	}
	if !removed {
		return types.ErrNotFound
	}

	contacts := r.GetContactsByCompanyID(ctx, id)
	deals := r.GetDealsByCompanyID(ctx, id)
	activities := r.GetActivitiesByCompanyID(ctx, id)

	var g errgroup.Group
	for _, c := range contacts {
		contactID := c.ID
		g.Go(func() error {
			_, err := r.store.Remove(ctx, types.TableContacts, contactID)
			return err
		})
	}
	for _, d := range deals {
		dealID := d.ID
		g.Go(func() error {
			_, err := r.store.Remove(ctx, types.TableDeals, dealID)
			return err
		})
	}
	for _, a := range activities {
		activityID := a.ID
		g.Go(func() error {
			_, err := r.store.Remove(ctx, types.TableActivities, activityID)
			return err
		})
	}
	return g.Wait()
}
