package models

// Summary totals a user's transactions. MonthlyChange is not computed yet and
// is always reported as zero.
type Summary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Balance       float64 `json:"balance"`
	MonthlyChange float64 `json:"monthlyChange"`
}
