package types

// Pipeline stages shared by companies and deals.
const (
	StageNew         = "new"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

// Stages lists the pipeline stages in funnel order.
var Stages = []string{
	StageNew, StageQualified, StageProposal, StageNegotiation, StageWon, StageLost,
}

var validStages = map[string]bool{
	StageNew:         true,
	StageQualified:   true,
	StageProposal:    true,
	StageNegotiation: true,
	StageWon:         true,
	StageLost:        true,
}

// IsValidStage reports whether stage is a recognized pipeline stage.
func IsValidStage(stage string) bool {
	return validStages[stage]
}

// Company is an account in the pipeline.
//
// Timestamps are zero-padded ISO-8601 strings; listings sort by UpdatedAt
// with a plain string compare, which is valid only because of that format.
type Company struct {
	ID        string `json:"id"`
	Name      string `json:"name"` // Required, non-empty; natural key after trim+lower.
	Stage     string `json:"stage"`
	Owner     string `json:"owner"`
	Source    string `json:"source"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Legacy company statuses, pre-migration. MapLegacyStatus translates them to
// pipeline stages.
const (
	LegacyStatusLead     = "lead"
	LegacyStatusProspect = "prospect"
	LegacyStatusActive   = "active"
	LegacyStatusLost     = "lost"
)

// MapLegacyStatus translates a legacy company status into a pipeline stage.
// Unrecognized values map to "new".
func MapLegacyStatus(status string) string {
	switch status {
	case LegacyStatusLead:
		return StageNew
	case LegacyStatusProspect:
		return StageQualified
	case LegacyStatusActive:
		return StageWon
	case LegacyStatusLost:
		return StageLost
	default:
		return StageNew
	}
}
