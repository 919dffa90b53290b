package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walidBc-blip/finance-dashboard/src/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.TotalIncome)
	assert.Zero(t, summary.TotalExpenses)
	assert.Zero(t, summary.SavingsRate)
	assert.Empty(t, summary.TopCategories)
	assert.Empty(t, summary.MonthlyTrends)
	assert.Zero(t, summary.TransactionCount)
}

func TestSummarizeBasicScenario(t *testing.T) {
	transactions := []models.Transaction{
		{Amount: 1000, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-03-01")},
		{Amount: 300, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-03-05")},
		{Amount: 200, Category: "Housing", Type: models.TransactionTypeExpense, Date: date("2026-03-10")},
	}

	summary := Summarize(transactions)

	assert.Equal(t, 1000.0, summary.TotalIncome)
	assert.Equal(t, 500.0, summary.TotalExpenses)
	assert.Equal(t, 0.5, summary.SavingsRate)
	assert.Equal(t, 3, summary.TransactionCount)

	require.Len(t, summary.TopCategories, 2)
	assert.Equal(t, models.CategorySpend{Category: "Food", Amount: 300, Percentage: 60}, summary.TopCategories[0])
	assert.Equal(t, models.CategorySpend{Category: "Housing", Amount: 200, Percentage: 40}, summary.TopCategories[1])

	require.Len(t, summary.MonthlyTrends, 1)
	assert.Equal(t, models.MonthlyTrend{Month: "2026-03", Income: 1000, Expenses: 500, Net: 500}, summary.MonthlyTrends[0])
}

func TestSummarizeZeroIncome(t *testing.T) {
	transactions := []models.Transaction{
		{Amount: 50, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-03-01")},
	}

	summary := Summarize(transactions)

	assert.Zero(t, summary.TotalIncome)
	assert.Equal(t, 50.0, summary.TotalExpenses)
	assert.Zero(t, summary.SavingsRate)
}

func TestSummarizeTopCategoriesTieBreakAndCap(t *testing.T) {
	var transactions []models.Transaction
	// Seven categories, two tied at the top.
	for i, category := range []string{"Gym", "Food", "Travel", "Books", "Pets", "Games", "Tools"} {
		amount := 100.0 - float64(i*10)
		if category == "Food" {
			amount = 100 // tie with Gym
		}
		transactions = append(transactions, models.Transaction{
			Amount: amount, Category: category, Type: models.TransactionTypeExpense, Date: date("2026-03-01"),
		})
	}

	summary := Summarize(transactions)

	require.Len(t, summary.TopCategories, TopCategoryLimit)
	// Tie broken alphabetically.
	assert.Equal(t, "Food", summary.TopCategories[0].Category)
	assert.Equal(t, "Gym", summary.TopCategories[1].Category)
	for i := 1; i < len(summary.TopCategories); i++ {
		assert.GreaterOrEqual(t, summary.TopCategories[i-1].Amount, summary.TopCategories[i].Amount)
	}
}

func TestSummarizeMonthlyTrendsAscending(t *testing.T) {
	transactions := []models.Transaction{
		{Amount: 200, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-03-15")},
		{Amount: 1000, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-01-01")},
		{Amount: 400, Category: "Rent", Type: models.TransactionTypeExpense, Date: date("2026-02-01")},
	}

	summary := Summarize(transactions)

	require.Len(t, summary.MonthlyTrends, 3)
	assert.Equal(t, []string{"2026-01", "2026-02", "2026-03"}, []string{
		summary.MonthlyTrends[0].Month,
		summary.MonthlyTrends[1].Month,
		summary.MonthlyTrends[2].Month,
	})
	assert.Equal(t, 1000.0, summary.MonthlyTrends[0].Net)
	assert.Equal(t, -400.0, summary.MonthlyTrends[1].Net)
}

func TestLastMonths(t *testing.T) {
	var trends []models.MonthlyTrend
	for m := 1; m <= 8; m++ {
		trends = append(trends, models.MonthlyTrend{Month: fmt.Sprintf("2026-%02d", m)})
	}

	truncated := LastMonths(trends, 3)
	require.Len(t, truncated, 3)
	assert.Equal(t, "2026-06", truncated[0].Month)
	assert.Equal(t, "2026-08", truncated[2].Month)

	assert.Len(t, LastMonths(trends, 12), 8)
	assert.Len(t, LastMonths(trends, 0), 8)
}
