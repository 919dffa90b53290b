package analytics

import (
	"sort"
	"time"

	"github.com/walidBc-blip/finance-dashboard/src/models"
)

// Severity cutoffs as percentage of the monthly limit used. Each tier is
// inclusive on its lower bound.
const (
	SeverityDangerPct  = 90.0
	SeverityWarningPct = 75.0
	SeverityInfoPct    = 50.0
)

// EvaluateBudgets compares current-month expense transactions against the
// user's budgets. A zero or negative monthly limit is treated as a
// misconfiguration and reports 0% used rather than failing. Output is sorted
// by percentage used descending; ties keep budget input order.
func EvaluateBudgets(budgets []models.Budget, currentMonthTransactions []models.Transaction, now time.Time) []models.BudgetAlert {
	spentByCategory := make(map[string]float64)
	for _, tx := range currentMonthTransactions {
		if tx.Type == models.TransactionTypeExpense {
			spentByCategory[tx.Category] += tx.Amount
		}
	}

	// Computed once per evaluation, not per budget.
	daysRemaining := daysRemainingInMonth(now)

	alerts := make([]models.BudgetAlert, 0, len(budgets))
	for _, budget := range budgets {
		spent := spentByCategory[budget.Category]

		var percentageUsed float64
		if budget.MonthlyLimit > 0 {
			percentageUsed = spent / budget.MonthlyLimit * 100
		}

		alerts = append(alerts, models.BudgetAlert{
			Category:             budget.Category,
			BudgetLimit:          budget.MonthlyLimit,
			CurrentSpending:      spent,
			PercentageUsed:       percentageUsed,
			Remaining:            budget.MonthlyLimit - spent,
			AlertThreshold:       budget.AlertThreshold,
			Severity:             severityFor(percentageUsed),
			DaysRemainingInMonth: daysRemaining,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].PercentageUsed > alerts[j].PercentageUsed
	})
	return alerts
}

func severityFor(percentageUsed float64) string {
	switch {
	case percentageUsed >= SeverityDangerPct:
		return models.SeverityDanger
	case percentageUsed >= SeverityWarningPct:
		return models.SeverityWarning
	case percentageUsed >= SeverityInfoPct:
		return models.SeverityInfo
	default:
		return models.SeveritySuccess
	}
}

func daysRemainingInMonth(now time.Time) int {
	firstOfNextMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	daysInMonth := firstOfNextMonth.AddDate(0, 0, -1).Day()
	return daysInMonth - now.Day()
}
