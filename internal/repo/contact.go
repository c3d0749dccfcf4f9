package repo

import (
	"context"

	"github.com/supplify/crm/pkg/types"
)

// ContactInput carries the caller-supplied fields of a contact upsert.
type ContactInput struct {
	ID        string
	CompanyID string
	Name      string
	Role      string
	Email     string
	Phone     string
	LinkedIn  string
	Notes     string
}

// ListContacts returns all contacts, most recently updated first.
func (r *Repository) ListContacts(ctx context.Context) []types.Contact {
	rows := r.listRows(ctx, types.TableContacts)
	contacts := make([]types.Contact, 0, len(rows))
	for _, rec := range rows {
		contacts = append(contacts, contactFromRow(rec))
	}
	sortByUpdatedAtDesc(contacts, func(c types.Contact) string { return c.UpdatedAt })
	return contacts
}

// GetContactByID returns the contact with the given id, or false.
func (r *Repository) GetContactByID(ctx context.Context, id string) (types.Contact, bool) {
	for _, c := range r.ListContacts(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return types.Contact{}, false
}

// GetContactsByCompanyID returns the contacts referencing companyID.
func (r *Repository) GetContactsByCompanyID(ctx context.Context, companyID string) []types.Contact {
	var out []types.Contact
	for _, c := range r.ListContacts(ctx) {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out
}

// FindContactByEmail matches by normalized email. Empty input never matches.
func (r *Repository) FindContactByEmail(ctx context.Context, email string) (types.Contact, bool) {
	needle := types.NormalizeEmail(email)
	if needle == "" {
		return types.Contact{}, false
	}
	for _, c := range r.ListContacts(ctx) {
		if types.NormalizeEmail(c.Email) == needle {
			return c, true
		}
	}
	return types.Contact{}, false
}

// UpsertContact creates or updates a contact. An explicit ID matches by id;
// otherwise a non-empty email is the natural key, and without one a new
// contact is always created. The stored email is trimmed and lower-cased.
func (r *Repository) UpsertContact(ctx context.Context, in ContactInput) (types.Contact, error) {
	if in.CompanyID == "" {
		return types.Contact{}, ErrCompanyRequired
	}
	if types.NormalizeText(in.Name) == "" {
		return types.Contact{}, ErrNameRequired
	}

	now := types.NowISO()
	var existing types.Contact
	var found bool
	switch {
	case in.ID != "":
		existing, found = r.GetContactByID(ctx, in.ID)
	case in.Email != "":
		existing, found = r.FindContactByEmail(ctx, in.Email)
	}

	contact := types.Contact{
		ID:        in.ID,
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Role:      in.Role,
		Email:     types.NormalizeEmail(in.Email),
		Phone:     in.Phone,
		LinkedIn:  in.LinkedIn,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if found {
		contact.ID = existing.ID
		contact.CreatedAt = existing.CreatedAt
	}
	if contact.ID == "" {
		contact.ID = types.NewID("ctc")
	}

	if err := r.store.Upsert(ctx, types.TableContacts, contactToRow(contact), []string{"id"}); err != nil {
		return types.Contact{}, err
	}
	return contact, nil
}

// DeleteContact removes the contact with the given id. Returns ErrNotFound
// when no contact has it.
func (r *Repository) DeleteContact(ctx context.Context, id string) error {
	removed, err := r.store.Remove(ctx, types.TableContacts, id)
	if err != nil {
		return err
	}
	if !removed {
		return types.ErrNotFound
	}
	return nil
}
