package types

// Deal is a sales opportunity. Value, SetupValue and MonthlyValue are
// clamped to >= 0 on write; Probability is clamped to [0, 100].
type Deal struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"companyId"`
	Title        string  `json:"title"` // Natural key together with CompanyID, after trim+lower.
	Stage        string  `json:"stage"`
	Value        float64 `json:"value"`
	SetupValue   float64 `json:"setupValue"`
	MonthlyValue float64 `json:"monthlyValue"`
	Probability  float64 `json:"probability"`
	CloseDate    string  `json:"closeDate"` // YYYY-MM-DD or empty.
	Owner        string  `json:"owner"`
	Notes        string  `json:"notes"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}
