package repo

import (
	"context"

	"github.com/supplify/crm/pkg/types"
)

// ActivityInput carries the caller-supplied fields of an activity upsert.
type ActivityInput struct {
	ID        string
	CompanyID string
	ContactID string
	Type      string
	DueDate   string
	Done      bool
	Notes     string
}

// ListActivities returns all activities, most recently updated first.
func (r *Repository) ListActivities(ctx context.Context) []types.Activity {
	rows := r.listRows(ctx, types.TableActivities)
	activities := make([]types.Activity, 0, len(rows))
	for _, rec := range rows {
		activities = append(activities, activityFromRow(rec))
	}
	sortByUpdatedAtDesc(activities, func(a types.Activity) string { return a.UpdatedAt })
	return activities
}

// GetActivityByID returns the activity with the given id, or false.
func (r *Repository) GetActivityByID(ctx context.Context, id string) (types.Activity, bool) {
	for _, a := range r.ListActivities(ctx) {
		if a.ID == id {
			return a, true
		}
	}
	return types.Activity{}, false
}

// GetActivitiesByCompanyID returns the activities referencing companyID.
func (r *Repository) GetActivitiesByCompanyID(ctx context.Context, companyID string) []types.Activity {
	var out []types.Activity
	for _, a := range r.ListActivities(ctx) {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out
}

// UpsertActivity creates or updates an activity. Activities have no natural
// key: an explicit ID matches by id, anything else creates a new one.
func (r *Repository) UpsertActivity(ctx context.Context, in ActivityInput) (types.Activity, error) {
	if in.CompanyID == "" {
		return types.Activity{}, ErrCompanyRequired
	}
	if !types.IsValidActivityType(in.Type) {
		return types.Activity{}, ErrInvalidType
	}

	now := types.NowISO()
	var existing types.Activity
	var found bool
	if in.ID != "" {
		existing, found = r.GetActivityByID(ctx, in.ID)
	}

	activity := types.Activity{
		ID:        in.ID,
		CompanyID: in.CompanyID,
		ContactID: in.ContactID,
		Type:      in.Type,
		DueDate:   in.DueDate,
		Done:      in.Done,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if found {
		activity.CreatedAt = existing.CreatedAt
	}
	if activity.ID == "" {
		activity.ID = types.NewID("act")
	}

	if err := r.store.Upsert(ctx, types.TableActivities, activityToRow(activity), []string{"id"}); err != nil {
		return types.Activity{}, err
	}
	return activity, nil
}

// DeleteActivity removes the activity with the given id. Returns ErrNotFound
// when no activity has it.
func (r *Repository) DeleteActivity(ctx context.Context, id string) error {
	removed, err := r.store.Remove(ctx, types.TableActivities, id)
	if err != nil {
		return err
	}
	if !removed {
		return types.ErrNotFound
	}
	return nil
}
