package repo

import (
	"strconv"

	"github.com/supplify/crm/pkg/types"
)

// Row <-> entity conversion. This is the only place the untyped string grid
// leaks into the repository; everything above works with the structs.

func parseNumber(v string) float64 {
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func companyFromRow(rec types.Row) types.Company {
	stage := rec["stage"]
	if stage == "" {
		stage = types.StageNew
	}
	return types.Company{
		ID:        rec["id"],
		Name:      rec["name"],
		Stage:     stage,
		Owner:     rec["owner"],
		Source:    rec["source"],
		Notes:     rec["notes"],
		CreatedAt: rec["createdAt"],
		UpdatedAt: rec["updatedAt"],
	}
}

func companyToRow(c types.Company) types.Row {
	return types.Row{
		"id":        c.ID,
		"name":      c.Name,
		"stage":     c.Stage,
		"owner":     c.Owner,
		"source":    c.Source,
		"notes":     c.Notes,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

func contactFromRow(rec types.Row) types.Contact {
	return types.Contact{
		ID:        rec["id"],
		CompanyID: rec["companyId"],
		Name:      rec["name"],
		Role:      rec["role"],
		Email:     rec["email"],
		Phone:     rec["phone"],
		LinkedIn:  rec["linkedin"],
		Notes:     rec["notes"],
		CreatedAt: rec["createdAt"],
		UpdatedAt: rec["updatedAt"],
	}
}

func contactToRow(c types.Contact) types.Row {
	return types.Row{
		"id":        c.ID,
		"companyId": c.CompanyID,
		"name":      c.Name,
		"role":      c.Role,
		"email":     c.Email,
		"phone":     c.Phone,
		"linkedin":  c.LinkedIn,
		"notes":     c.Notes,
		"createdAt": c.CreatedAt,
		"updatedAt": c.UpdatedAt,
	}
}

func dealFromRow(rec types.Row) types.Deal {
	stage := rec["stage"]
	if stage == "" {
		stage = types.StageNew
	}
	return types.Deal{
		ID:           rec["id"],
		CompanyID:    rec["companyId"],
		Title:        rec["title"],
		Stage:        stage,
		Value:        parseNumber(rec["value"]),
		SetupValue:   parseNumber(rec["setupValue"]),
		MonthlyValue: parseNumber(rec["monthlyValue"]),
		Probability:  types.Clamp(parseNumber(rec["probability"]), 0, 100),
		CloseDate:    rec["closeDate"],
		Owner:        rec["owner"],
		Notes:        rec["notes"],
		CreatedAt:    rec["createdAt"],
		UpdatedAt:    rec["updatedAt"],
	}
}

func dealToRow(d types.Deal) types.Row {
	return types.Row{
		"id":           d.ID,
		"companyId":    d.CompanyID,
		"title":        d.Title,
		"stage":        d.Stage,
		"value":        formatNumber(d.Value),
		"setupValue":   formatNumber(d.SetupValue),
		"monthlyValue": formatNumber(d.MonthlyValue),
		"probability":  formatNumber(d.Probability),
		"closeDate":    d.CloseDate,
		"owner":        d.Owner,
		"notes":        d.Notes,
		"createdAt":    d.CreatedAt,
		"updatedAt":    d.UpdatedAt,
	}
}

func activityFromRow(rec types.Row) types.Activity {
	typ := rec["type"]
	if typ == "" {
		typ = types.ActivityTask
	}
	return types.Activity{
		ID:        rec["id"],
		CompanyID: rec["companyId"],
		ContactID: rec["contactId"],
		Type:      typ,
		DueDate:   rec["dueDate"],
		Done:      rec["done"] == "true",
		Notes:     rec["notes"],
		CreatedAt: rec["createdAt"],
		UpdatedAt: rec["updatedAt"],
	}
}

func activityToRow(a types.Activity) types.Row {
	return types.Row{
		"id":        a.ID,
		"companyId": a.CompanyID,
		"contactId": a.ContactID,
		"type":      a.Type,
		"dueDate":   a.DueDate,
		"done":      types.FormatBool(a.Done),
		"notes":     a.Notes,
		"createdAt": a.CreatedAt,
		"updatedAt": a.UpdatedAt,
	}
}
