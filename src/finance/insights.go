package finance

import (
	"fmt"

	"finsentinel-server/src/models"
)

// RecentTransactionLimit is how many of the newest transactions feed the
// insight heuristics.
const RecentTransactionLimit = 100

const (
	// Daily averages always divide by a fixed month, not the span covered.
	daysPerMonth = 30
	savingsRate  = 0.2
)

// GenerateInsights derives a short list of insights from a transaction
// snapshot. Only expenses are analysed; income rows are ignored.
func GenerateInsights(txns []models.Transaction) []models.Insight {
	if len(txns) == 0 {
		return []models.Insight{{
			Title:          "Start Tracking",
			Description:    "Add your first expense to get personalized financial insights.",
			Type:           models.InsightTypeInfo,
			Recommendation: "Begin by logging your daily expenses to help us analyze your spending patterns.",
		}}
	}

	totals := make(map[string]float64)
	var order []string
	var totalExpenses float64
	for _, t := range txns {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount
		totalExpenses += t.Amount
	}

	// Strict comparison keeps the first category seen on ties.
	var highestCategory string
	var highestAmount float64
	for _, category := range order {
		if totals[category] > highestAmount {
			highestAmount = totals[category]
			highestCategory = category
		}
	}

	insights := make([]models.Insight, 0, 3)
	if highestCategory != "" {
		percentage := highestAmount / totalExpenses * 100
		insights = append(insights, models.Insight{
			Title: fmt.Sprintf("High %s Spending", highestCategory),
			Description: fmt.Sprintf("You've spent ₹%s on %s this month, which is %s%% of your total expenses.",
				formatFixed(highestAmount, 2), highestCategory, formatFixed(percentage, 1)),
			Type:           models.InsightTypeWarning,
			Recommendation: fmt.Sprintf("Consider setting a budget limit for %s to better control your spending.", highestCategory),
		})
	}

	avgDailyExpense := totalExpenses / daysPerMonth
	suggestedSavings := avgDailyExpense * savingsRate * daysPerMonth

	insights = append(insights,
		models.Insight{
			Title: "Savings Opportunity",
			Description: fmt.Sprintf("Based on your spending patterns, you could potentially save ₹%s per month by reducing discretionary expenses by 20%%.",
				formatFixed(suggestedSavings, 2)),
			Type:           models.InsightTypeSuccess,
			Recommendation: "Start with small changes like cooking at home more often or reducing subscription services.",
		},
		models.Insight{
			Title: "Spending Pattern Analysis",
			Description: fmt.Sprintf("Your average daily expense is ₹%s. Maintaining awareness of daily spending can help you stay within budget.",
				formatFixed(avgDailyExpense, 2)),
			Type:           models.InsightTypeInfo,
			Recommendation: "Track your expenses daily to identify areas where you can cut back.",
		},
	)
	return insights
}
