package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walidBc-blip/finance-dashboard/src/models"
)

func TestScoreHealthNoTransactions(t *testing.T) {
	score := ScoreHealth(nil, nil, nil, nil)

	assert.Equal(t, 50, score.Score)
	assert.Equal(t, models.ScoreInsufficientData, score.Category)
	assert.Equal(t, []string{"Add more transactions to get accurate scoring"}, score.Recommendations)
	assert.Empty(t, score.ComponentScores)
}

func TestScoreHealthBaselineSaver(t *testing.T) {
	// 25% savings rate, nothing else set up, one month of data.
	transactions := []models.Transaction{
		{Amount: 1000, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-03-01")},
		{Amount: 750, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-03-05")},
	}

	score := ScoreHealth(transactions, nil, nil, nil)

	assert.Equal(t, 100.0, score.ComponentScores["savings"])
	assert.Equal(t, 25.0, score.ComponentScores["budget"])
	assert.Equal(t, 0.0, score.ComponentScores["emergency"])
	assert.Equal(t, 0.0, score.ComponentScores["investment"])
	assert.Equal(t, 50.0, score.ComponentScores["consistency"])

	// 100*.30 + 25*.25 + 0 + 0 + 50*.10 = 41.25, rounded.
	assert.Equal(t, 41, score.Score)
	assert.Equal(t, models.ScorePoor, score.Category)

	assert.Equal(t, []string{
		"Set up budgets for better financial control",
		"Create an emergency fund goal",
		"Consider starting an investment portfolio",
		"Consider consulting with a financial advisor",
	}, score.Recommendations)
}

func TestScoreHealthPerfect(t *testing.T) {
	transactions := []models.Transaction{
		{Amount: 1000, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-01-01")},
		{Amount: 500, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-01-10")},
		{Amount: 1000, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-02-01")},
		{Amount: 500, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-02-10")},
	}
	budgets := []models.Budget{
		{Category: "Food", MonthlyLimit: 200},
	}
	goals := []models.SavingsGoal{
		{GoalName: "Emergency Fund", CurrentAmount: 1200, TargetAmount: 2000},
	}
	investments := []models.Investment{
		{Type: "stocks"}, {Type: "bonds"}, {Type: "crypto"}, {Type: "etf"},
	}

	score := ScoreHealth(transactions, budgets, goals, investments)

	assert.Equal(t, 100.0, score.ComponentScores["savings"])
	assert.Equal(t, 100.0, score.ComponentScores["budget"])
	assert.Equal(t, 100.0, score.ComponentScores["emergency"])
	assert.Equal(t, 100.0, score.ComponentScores["investment"])
	assert.Equal(t, 100.0, score.ComponentScores["consistency"])

	assert.Equal(t, 100, score.Score)
	assert.Equal(t, models.ScoreExcellent, score.Category)
	assert.Equal(t, []string{"Keep up the great work with your finances!"}, score.Recommendations)
}

func TestScoreHealthEmergencyFundByName(t *testing.T) {
	transactions := []models.Transaction{
		{Amount: 1000, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-03-01")},
		{Amount: 600, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-03-05")},
	}

	// Name matching is a case-insensitive substring check.
	matched := ScoreHealth(transactions, nil, []models.SavingsGoal{
		{GoalName: "My EMERGENCY stash", CurrentAmount: 700, TargetAmount: 1000},
	}, nil)
	assert.Equal(t, 100.0, matched.ComponentScores["emergency"], "700 covers 7 months of 100/month expenses")

	unmatched := ScoreHealth(transactions, nil, []models.SavingsGoal{
		{GoalName: "Rainy day", CurrentAmount: 600, TargetAmount: 1000},
	}, nil)
	assert.Equal(t, 0.0, unmatched.ComponentScores["emergency"])
	assert.Contains(t, unmatched.Recommendations, "Create an emergency fund goal")
}

func TestScoreHealthOverspending(t *testing.T) {
	transactions := []models.Transaction{
		{Amount: 1000, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-03-01")},
		{Amount: 1500, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-03-05")},
	}

	score := ScoreHealth(transactions, nil, nil, nil)

	assert.Equal(t, 0.0, score.ComponentScores["savings"])
	assert.Contains(t, score.Recommendations, "You're spending more than you earn - review your expenses")
}

func TestScoreHealthBudgetAdherenceOverWindow(t *testing.T) {
	// 1200 spent on Food against a 100/month budget: the window limit is
	// 600, so overspend is 100% and adherence drops to 0.
	transactions := []models.Transaction{
		{Amount: 5000, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-03-01")},
		{Amount: 1200, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-03-05")},
	}
	budgets := []models.Budget{
		{Category: "Food", MonthlyLimit: 100},
	}

	score := ScoreHealth(transactions, budgets, nil, nil)

	assert.Equal(t, 0.0, score.ComponentScores["budget"])
	assert.Contains(t, score.Recommendations, "You're exceeding budgets in some categories")
}

func TestScoreHealthRecommendationCap(t *testing.T) {
	// Worst case across every component still stays within the cap.
	transactions := []models.Transaction{
		{Amount: 100, Category: "Salary", Type: models.TransactionTypeIncome, Date: date("2026-03-01")},
		{Amount: 500, Category: "Food", Type: models.TransactionTypeExpense, Date: date("2026-03-05")},
	}
	budgets := []models.Budget{
		{Category: "Food", MonthlyLimit: 10},
	}
	goals := []models.SavingsGoal{
		{GoalName: "Emergency", CurrentAmount: 0, TargetAmount: 1000},
	}
	investments := []models.Investment{{Type: "stocks"}}

	score := ScoreHealth(transactions, budgets, goals, investments)

	require.LessOrEqual(t, len(score.Recommendations), 5)
	assert.Contains(t, score.Recommendations, "Consider consulting with a financial advisor")
}

func TestScoreCategoryBoundaries(t *testing.T) {
	assert.Equal(t, models.ScoreExcellent, scoreCategory(80))
	assert.Equal(t, models.ScoreGood, scoreCategory(70))
	assert.Equal(t, models.ScoreFair, scoreCategory(60))
	assert.Equal(t, models.ScoreNeedsImprovement, scoreCategory(50))
	assert.Equal(t, models.ScorePoor, scoreCategory(49))
}

func TestStddevPopulation(t *testing.T) {
	assert.InDelta(t, 2.0, stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Zero(t, stddev([]float64{5, 5, 5}))
}
