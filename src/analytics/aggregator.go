// Package analytics derives spending summaries, budget alerts and the
// financial health score from a user's already-materialized history. Every
// function here is pure: no I/O, no shared state, defined output for empty
// input.
package analytics

import (
	"sort"

	"github.com/walidBc-blip/finance-dashboard/src/models"
)

// TopCategoryLimit caps the category breakdown of a spending summary.
const TopCategoryLimit = 5

const monthKeyLayout = "2006-01"

// Summarize reduces a transaction set into income/expense totals, the top
// expense categories and monthly trends. An empty input yields a zeroed
// summary, never an error.
func Summarize(transactions []models.Transaction) models.SpendingSummary {
	summary := models.SpendingSummary{
		TopCategories:    []models.CategorySpend{},
		MonthlyTrends:    []models.MonthlyTrend{},
		TransactionCount: len(transactions),
	}

	categoryTotals := make(map[string]float64)
	monthly := make(map[string]*models.MonthlyTrend)

	for _, tx := range transactions {
		monthKey := tx.Date.Format(monthKeyLayout)
		trend, ok := monthly[monthKey]
		if !ok {
			trend = &models.MonthlyTrend{Month: monthKey}
			monthly[monthKey] = trend
		}

		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome += tx.Amount
			trend.Income += tx.Amount
		case models.TransactionTypeExpense:
			summary.TotalExpenses += tx.Amount
			trend.Expenses += tx.Amount
			categoryTotals[tx.Category] += tx.Amount
		}
	}

	// Zero income is a normal steady state for a new user, not an error.
	if summary.TotalIncome > 0 {
		summary.SavingsRate = (summary.TotalIncome - summary.TotalExpenses) / summary.TotalIncome
	}

	summary.TopCategories = topCategories(categoryTotals, summary.TotalExpenses)

	for _, trend := range monthly {
		trend.Net = trend.Income - trend.Expenses
		summary.MonthlyTrends = append(summary.MonthlyTrends, *trend)
	}
	sort.Slice(summary.MonthlyTrends, func(i, j int) bool {
		return summary.MonthlyTrends[i].Month < summary.MonthlyTrends[j].Month
	})

	return summary
}

// topCategories ranks expense categories descending by amount, ties broken
// by category name ascending so the output is deterministic.
func topCategories(totals map[string]float64, totalExpenses float64) []models.CategorySpend {
	ranked := make([]models.CategorySpend, 0, len(totals))
	for category, amount := range totals {
		spend := models.CategorySpend{Category: category, Amount: amount}
		if totalExpenses > 0 {
			spend.Percentage = amount / totalExpenses * 100
		}
		ranked = append(ranked, spend)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Amount != ranked[j].Amount {
			return ranked[i].Amount > ranked[j].Amount
		}
		return ranked[i].Category < ranked[j].Category
	})

	if len(ranked) > TopCategoryLimit {
		ranked = ranked[:TopCategoryLimit]
	}
	return ranked
}

// LastMonths truncates ascending monthly trends to the most recent n months.
func LastMonths(trends []models.MonthlyTrend, n int) []models.MonthlyTrend {
	if n <= 0 || len(trends) <= n {
		return trends
	}
	return trends[len(trends)-n:]
}
