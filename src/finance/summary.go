package finance

import (
	"github.com/shopspring/decimal"

	"finsentinel-server/src/models"
)

// Summarize totals income and expenses. Anything whose type is not income is
// counted as an expense.
func Summarize(txns []models.Transaction) models.Summary {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txns {
		amount := decimal.NewFromFloat(t.Amount)
		if t.Type == models.TransactionTypeIncome {
			income = income.Add(amount)
		} else {
			expenses = expenses.Add(amount)
		}
	}

	return models.Summary{
		TotalIncome:   income.InexactFloat64(),
		TotalExpenses: expenses.InexactFloat64(),
		Balance:       income.Sub(expenses).InexactFloat64(),
		MonthlyChange: 0,
	}
}
