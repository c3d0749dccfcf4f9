package repo

import (
	"context"

	"github.com/supplify/crm/pkg/types"
)

// DealInput carries the caller-supplied fields of a deal upsert.
type DealInput struct {
	ID           string
	CompanyID    string
	Title        string
	Stage        string
	Value        float64
	SetupValue   float64
	MonthlyValue float64
	Probability  float64
	CloseDate    string
	Owner        string
	Notes        string
}

// ListDeals returns all deals, most recently updated first.
func (r *Repository) ListDeals(ctx context.Context) []types.Deal {
	rows := r.listRows(ctx, types.TableDeals)
	deals := make([]types.Deal, 0, len(rows))
	for _, rec := range rows {
		deals = append(deals, dealFromRow(rec))
	}
	sortByUpdatedAtDesc(deals, func(d types.Deal) string { return d.UpdatedAt })
	return deals
}

// GetDealByID returns the deal with the given id, or false.
func (r *Repository) GetDealByID(ctx context.Context, id string) (types.Deal, bool) {
	for _, d := range r.ListDeals(ctx) {
		if d.ID == id {
			return d, true
		}
	}
	return types.Deal{}, false
}

// GetDealsByCompanyID returns the deals referencing companyID.
func (r *Repository) GetDealsByCompanyID(ctx context.Context, companyID string) []types.Deal {
	var out []types.Deal
	for _, d := range r.ListDeals(ctx) {
		if d.CompanyID == companyID {
			out = append(out, d)
		}
	}
	return out
}

// FindDealByCompanyAndTitle matches by the (companyId, normalized title)
// pair.
func (r *Repository) FindDealByCompanyAndTitle(ctx context.Context, companyID, title string) (types.Deal, bool) {
	needle := types.NormalizeKey(title)
	for _, d := range r.GetDealsByCompanyID(ctx, companyID) {
		if types.NormalizeKey(d.Title) == needle {
			return d, true
		}
	}
	return types.Deal{}, false
}

// UpsertDeal creates or updates a deal. An explicit ID matches by id;
// otherwise (companyId, normalized title) is the natural key. Monetary
// values are clamped to >= 0 and probability to [0, 100] before writing.
func (r *Repository) UpsertDeal(ctx context.Context, in DealInput) (types.Deal, error) {
	if in.CompanyID == "" {
		return types.Deal{}, ErrCompanyRequired
	}
	if types.NormalizeText(in.Title) == "" {
		return types.Deal{}, ErrTitleRequired
	}

	now := types.NowISO()
	var existing types.Deal
	var found bool
	if in.ID != "" {
		existing, found = r.GetDealByID(ctx, in.ID)
	} else {
		existing, found = r.FindDealByCompanyAndTitle(ctx, in.CompanyID, in.Title)
	}

	stage := in.Stage
	if !types.IsValidStage(stage) {
		stage = types.StageNew
	}

	deal := types.Deal{
		ID:           in.ID,
		CompanyID:    in.CompanyID,
		Title:        in.Title,
		Stage:        stage,
		Value:        nonNegative(in.Value),
		SetupValue:   nonNegative(in.SetupValue),
		MonthlyValue: nonNegative(in.MonthlyValue),
		Probability:  types.Clamp(in.Probability, 0, 100),
		CloseDate:    in.CloseDate,
		Owner:        in.Owner,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if found {
		deal.ID = existing.ID
		deal.CreatedAt = existing.CreatedAt
	}
	if deal.ID == "" {
		deal.ID = types.NewID("deal")
	}

	if err := r.store.Upsert(ctx, types.TableDeals, dealToRow(deal), []string{"id"}); err != nil {
		return types.Deal{}, err
	}
	return deal, nil
}

// DeleteDeal removes the deal with the given id. Returns ErrNotFound when no
// deal has it.
func (r *Repository) DeleteDeal(ctx context.Context, id string) error {
	removed, err := r.store.Remove(ctx, types.TableDeals, id)
	if err != nil {
		return err
	}
	if !removed {
		return types.ErrNotFound
	}
	return nil
}
