package types

// Activity types. Activities also represent communications with leads.
const (
	ActivityCall     = "call"
	ActivityEmail    = "email"
	ActivityLinkedIn = "linkedin"
	ActivityWhatsApp = "whatsapp"
	ActivityMeeting  = "meeting"
	ActivityTask     = "task"
)

// ActivityTypes lists the recognized activity types.
var ActivityTypes = []string{
	ActivityCall, ActivityEmail, ActivityLinkedIn, ActivityWhatsApp,
	ActivityMeeting, ActivityTask,
}

var validActivityTypes = map[string]bool{
	ActivityCall:     true,
	ActivityEmail:    true,
	ActivityLinkedIn: true,
	ActivityWhatsApp: true,
	ActivityMeeting:  true,
	ActivityTask:     true,
}

// IsValidActivityType reports whether t is a recognized activity type.
func IsValidActivityType(t string) bool {
	return validActivityTypes[t]
}

// Activity is a scheduled or completed touchpoint. ContactID is optional.
// Done is stored on the sheet as the string "true" or "false".
type Activity struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId"`
	ContactID string `json:"contactId"`
	Type      string `json:"type"`
	DueDate   string `json:"dueDate"`
	Done      bool   `json:"done"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
