package models

const (
	InsightTypeInfo    = "info"
	InsightTypeWarning = "warning"
	InsightTypeSuccess = "success"
)

// Insight is derived from a user's recent transactions and is never edited
// directly. Stored copies are replaced wholesale on every refresh.
type Insight struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Type           string `json:"type"`
	Recommendation string `json:"recommendation"`
}
