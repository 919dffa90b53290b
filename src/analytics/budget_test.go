package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walidBc-blip/finance-dashboard/src/models"
)

func expense(category string, amount float64) models.Transaction {
	return models.Transaction{
		Amount:   amount,
		Category: category,
		Type:     models.TransactionTypeExpense,
		Date:     date("2026-03-10"),
	}
}

func TestEvaluateBudgetsBasic(t *testing.T) {
	budgets := []models.Budget{
		{Category: "Food", MonthlyLimit: 400, AlertThreshold: 0.8},
	}
	transactions := []models.Transaction{
		expense("Food", 100),
		expense("Food", 60),
	}

	alerts := EvaluateBudgets(budgets, transactions, date("2026-03-10"))

	require.Len(t, alerts, 1)
	alert := alerts[0]
	assert.Equal(t, "Food", alert.Category)
	assert.Equal(t, 400.0, alert.BudgetLimit)
	assert.Equal(t, 160.0, alert.CurrentSpending)
	assert.Equal(t, 40.0, alert.PercentageUsed)
	assert.Equal(t, 240.0, alert.Remaining)
	assert.Equal(t, 0.8, alert.AlertThreshold)
	assert.Equal(t, models.SeveritySuccess, alert.Severity)
	assert.Equal(t, 21, alert.DaysRemainingInMonth)
}

func TestEvaluateBudgetsZeroLimit(t *testing.T) {
	budgets := []models.Budget{
		{Category: "Food", MonthlyLimit: 0},
	}
	transactions := []models.Transaction{expense("Food", 50)}

	alerts := EvaluateBudgets(budgets, transactions, date("2026-03-10"))

	require.Len(t, alerts, 1)
	assert.Zero(t, alerts[0].PercentageUsed)
	assert.Equal(t, models.SeveritySuccess, alerts[0].Severity)
	assert.Equal(t, -50.0, alerts[0].Remaining)
}

func TestEvaluateBudgetsIgnoresIncome(t *testing.T) {
	budgets := []models.Budget{
		{Category: "Food", MonthlyLimit: 100},
	}
	transactions := []models.Transaction{
		{Amount: 500, Category: "Food", Type: models.TransactionTypeIncome, Date: date("2026-03-01")},
	}

	alerts := EvaluateBudgets(budgets, transactions, date("2026-03-10"))

	require.Len(t, alerts, 1)
	assert.Zero(t, alerts[0].CurrentSpending)
}

func TestSeverityBoundaries(t *testing.T) {
	cases := []struct {
		pct      float64
		expected string
	}{
		{0, models.SeveritySuccess},
		{49.99, models.SeveritySuccess},
		{50, models.SeverityInfo},
		{74.99, models.SeverityInfo},
		{75, models.SeverityWarning},
		{89.99, models.SeverityWarning},
		{90, models.SeverityDanger},
		{150, models.SeverityDanger},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, severityFor(tc.pct), "pct=%v", tc.pct)
	}
}

func TestEvaluateBudgetsSortedByPercentageUsed(t *testing.T) {
	budgets := []models.Budget{
		{Category: "Food", MonthlyLimit: 100},
		{Category: "Transport", MonthlyLimit: 100},
		{Category: "Fun", MonthlyLimit: 100},
	}
	transactions := []models.Transaction{
		expense("Food", 30),
		expense("Transport", 95),
		expense("Fun", 60),
	}

	alerts := EvaluateBudgets(budgets, transactions, date("2026-03-10"))

	require.Len(t, alerts, 3)
	assert.Equal(t, "Transport", alerts[0].Category)
	assert.Equal(t, "Fun", alerts[1].Category)
	assert.Equal(t, "Food", alerts[2].Category)
	assert.Equal(t, models.SeverityDanger, alerts[0].Severity)
	assert.Equal(t, models.SeverityInfo, alerts[1].Severity)
}

func TestDaysRemainingInMonth(t *testing.T) {
	assert.Equal(t, 0, daysRemainingInMonth(time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 27, daysRemainingInMonth(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	// Leap year February.
	assert.Equal(t, 28, daysRemainingInMonth(time.Date(2028, 2, 1, 0, 0, 0, 0, time.UTC)))
}
