package analytics

import (
	"math"
	"strings"

	"github.com/walidBc-blip/finance-dashboard/src/models"
)

// Component weights of the financial health score. Heuristic constants kept
// as configuration so they can be tuned without touching logic; defaults must
// stay exactly as documented for behavioral parity.
const (
	WeightSavings     = 0.30
	WeightBudget      = 0.25
	WeightEmergency   = 0.20
	WeightInvestment  = 0.15
	WeightConsistency = 0.10
)

// Savings-rate tiers.
const (
	SavingsRateExcellent = 0.20
	SavingsRateGood      = 0.10
	SavingsRateFair      = 0.05
)

// Scoring window in months. The budget adherence component scales each
// monthly limit by this factor regardless of how long the budget actually
// existed inside the window.
const ScoreWindowMonths = 6

// Emergency-fund coverage tiers, in months of average expenses.
const (
	EmergencyMonthsFull = 6.0
	EmergencyMonthsGood = 3.0
	EmergencyMonthsMin  = 1.0
)

// Final score category cutoffs.
const (
	ScoreCutoffExcellent = 80
	ScoreCutoffGood      = 70
	ScoreCutoffFair      = 60
	ScoreCutoffNeedsWork = 50
)

const maxRecommendations = 5

// ScoreHealth combines savings rate, budget adherence, emergency-fund
// coverage, investment diversification and spending consistency into a
// weighted 0-100 score with recommendations. Transactions are expected to
// cover the last ScoreWindowMonths months; with none at all it returns the
// fixed insufficient-data result.
func ScoreHealth(transactions []models.Transaction, budgets []models.Budget, goals []models.SavingsGoal, investments []models.Investment) models.HealthScore {
	if len(transactions) == 0 {
		return models.HealthScore{
			Score:           50,
			Category:        models.ScoreInsufficientData,
			Recommendations: []string{"Add more transactions to get accurate scoring"},
			ComponentScores: map[string]float64{},
		}
	}

	var totalIncome, totalExpenses float64
	expensesByCategory := make(map[string]float64)
	expensesByMonth := make(map[string]float64)
	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionTypeIncome:
			totalIncome += tx.Amount
		case models.TransactionTypeExpense:
			totalExpenses += tx.Amount
			expensesByCategory[tx.Category] += tx.Amount
			expensesByMonth[tx.Date.Format(monthKeyLayout)] += tx.Amount
		}
	}

	scores := make(map[string]float64, 5)
	var recommendations []string

	// 1. Savings rate
	if totalIncome > 0 {
		savingsRate := (totalIncome - totalExpenses) / totalIncome
		switch {
		case savingsRate >= SavingsRateExcellent:
			scores["savings"] = 100
		case savingsRate >= SavingsRateGood:
			scores["savings"] = 75
		case savingsRate >= SavingsRateFair:
			scores["savings"] = 50
		case savingsRate >= 0:
			scores["savings"] = 25
			recommendations = append(recommendations, "Try to save at least 10% of your income")
		default:
			scores["savings"] = 0
			recommendations = append(recommendations, "You're spending more than you earn - review your expenses")
		}
	} else {
		scores["savings"] = 0
	}

	// 2. Budget adherence over the whole window
	if len(budgets) > 0 {
		var adherenceScores []float64
		for _, budget := range budgets {
			windowLimit := budget.MonthlyLimit * ScoreWindowMonths
			if windowLimit > 0 {
				overspend := math.Max(0, (expensesByCategory[budget.Category]-windowLimit)/windowLimit)
				adherenceScores = append(adherenceScores, math.Min(100, (1-overspend)*100))
			}
		}
		if len(adherenceScores) > 0 {
			var sum float64
			for _, s := range adherenceScores {
				sum += s
			}
			scores["budget"] = sum / float64(len(adherenceScores))
			if scores["budget"] < 70 {
				recommendations = append(recommendations, "You're exceeding budgets in some categories")
			}
		} else {
			scores["budget"] = 50
		}
	} else {
		scores["budget"] = 25
		recommendations = append(recommendations, "Set up budgets for better financial control")
	}

	// 3. Emergency fund. Detection by goal-name substring, matching observed
	// behavior; the goal's category tag is deliberately not consulted.
	if emergencyFund := findEmergencyFund(goals); emergencyFund != nil {
		monthlyExpenses := totalExpenses / ScoreWindowMonths
		if monthlyExpenses > 0 {
			monthsCovered := emergencyFund.CurrentAmount / monthlyExpenses
			switch {
			case monthsCovered >= EmergencyMonthsFull:
				scores["emergency"] = 100
			case monthsCovered >= EmergencyMonthsGood:
				scores["emergency"] = 75
			case monthsCovered >= EmergencyMonthsMin:
				scores["emergency"] = 50
			default:
				scores["emergency"] = 25
				recommendations = append(recommendations, "Build an emergency fund covering 3-6 months of expenses")
			}
		} else {
			scores["emergency"] = 50
		}
	} else {
		scores["emergency"] = 0
		recommendations = append(recommendations, "Create an emergency fund goal")
	}

	// 4. Investment diversification
	if len(investments) > 0 {
		types := make(map[string]struct{})
		for _, inv := range investments {
			types[inv.Type] = struct{}{}
		}
		scores["investment"] = math.Min(100, float64(len(types))*25)
		if scores["investment"] < 50 {
			recommendations = append(recommendations, "Consider diversifying your investment portfolio")
		}
	} else {
		scores["investment"] = 0
		recommendations = append(recommendations, "Consider starting an investment portfolio")
	}

	// 5. Spending consistency: inverse of the coefficient of variation of
	// monthly expense totals. Under two months of data there is no signal,
	// so the component defaults to the neutral midpoint.
	if len(expensesByMonth) >= 2 {
		values := make([]float64, 0, len(expensesByMonth))
		for _, v := range expensesByMonth {
			values = append(values, v)
		}
		consistency := 100 - stddev(values)/mean(values)*100
		scores["consistency"] = math.Max(0, math.Min(100, consistency))
	} else {
		scores["consistency"] = 50
	}

	weighted := scores["savings"]*WeightSavings +
		scores["budget"]*WeightBudget +
		scores["emergency"]*WeightEmergency +
		scores["investment"]*WeightInvestment +
		scores["consistency"]*WeightConsistency
	finalScore := int(math.Round(weighted))
	if finalScore < 0 {
		finalScore = 0
	} else if finalScore > 100 {
		finalScore = 100
	}

	if finalScore < ScoreCutoffGood {
		recommendations = append(recommendations, "Consider consulting with a financial advisor")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Keep up the great work with your finances!")
	}
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	return models.HealthScore{
		Score:           finalScore,
		Category:        scoreCategory(finalScore),
		Recommendations: recommendations,
		ComponentScores: scores,
	}
}

func scoreCategory(score int) string {
	switch {
	case score >= ScoreCutoffExcellent:
		return models.ScoreExcellent
	case score >= ScoreCutoffGood:
		return models.ScoreGood
	case score >= ScoreCutoffFair:
		return models.ScoreFair
	case score >= ScoreCutoffNeedsWork:
		return models.ScoreNeedsImprovement
	default:
		return models.ScorePoor
	}
}

func findEmergencyFund(goals []models.SavingsGoal) *models.SavingsGoal {
	for i := range goals {
		if strings.Contains(strings.ToLower(goals[i].GoalName), "emergency") {
			return &goals[i]
		}
	}
	return nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
