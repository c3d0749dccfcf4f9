package types

// Contact is a person attached to a company. CompanyID is not enforced by
// the store; dangling references are possible and tolerated.
type Contact struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email"` // Stored trimmed and lower-cased; natural key when non-empty.
	Phone     string `json:"phone"`
	LinkedIn  string `json:"linkedin"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
