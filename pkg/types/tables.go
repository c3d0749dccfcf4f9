package types

// Standard table names.
const (
	TableCompanies  = "companies"
	TableContacts   = "contacts"
	TableDeals      = "deals"
	TableActivities = "activities"
)

// TableNames lists every standard table in creation order.
var TableNames = []string{TableCompanies, TableContacts, TableDeals, TableActivities}

// TableHeaders maps each table to its canonical header row. The slice order
// is the column order on the sheet; do not reorder.
var TableHeaders = map[string][]string{
	TableCompanies: {
		"id", "name", "stage", "owner", "source", "notes", "createdAt", "updatedAt",
	},
	TableContacts: {
		"id", "companyId", "name", "role", "email", "phone", "linkedin", "notes",
		"createdAt", "updatedAt",
	},
	TableDeals: {
		"id", "companyId", "title", "stage", "value", "setupValue", "monthlyValue",
		"probability", "closeDate", "owner", "notes", "createdAt", "updatedAt",
	},
	TableActivities: {
		"id", "companyId", "contactId", "type", "dueDate", "done", "notes",
		"createdAt", "updatedAt",
	},
}

// Legacy companies columns. A header containing any of these and lacking
// "stage" identifies the pre-migration companies shape.
const (
	LegacyColStatus  = "status"
	LegacyColSegment = "segment"
	LegacyColSize    = "size"
)

// IsStandardTable reports whether name is one of the four CRM tables.
func IsStandardTable(name string) bool {
	_, ok := TableHeaders[name]
	return ok
}
