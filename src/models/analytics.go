package models

// Value objects produced by the analytics engine. They carry no identity and
// no lifecycle beyond the call that creates them.

// CategorySpend is one entry of a spending breakdown.
type CategorySpend struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// MonthlyTrend aggregates one calendar month of activity. Month is keyed
// "YYYY-MM".
type MonthlyTrend struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type SpendingSummary struct {
	TotalIncome      float64         `json:"total_income"`
	TotalExpenses    float64         `json:"total_expenses"`
	SavingsRate      float64         `json:"savings_rate"`
	TopCategories    []CategorySpend `json:"top_categories"`
	MonthlyTrends    []MonthlyTrend  `json:"monthly_trends"`
	TransactionCount int             `json:"transaction_count"`
}

// Alert severity tiers, ordered success < info < warning < danger.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

type BudgetAlert struct {
	Category             string  `json:"category"`
	BudgetLimit          float64 `json:"budget_limit"`
	CurrentSpending      float64 `json:"current_spending"`
	PercentageUsed       float64 `json:"percentage_used"`
	Remaining            float64 `json:"remaining"`
	AlertThreshold       float64 `json:"alert_threshold"`
	Severity             string  `json:"severity"`
	DaysRemainingInMonth int     `json:"days_remaining_in_month"`
}

// Health score categories.
const (
	ScoreExcellent        = "Excellent"
	ScoreGood             = "Good"
	ScoreFair             = "Fair"
	ScoreNeedsImprovement = "Needs Improvement"
	ScorePoor             = "Poor"
	ScoreInsufficientData = "Insufficient Data"
)

type HealthScore struct {
	Score           int                `json:"score"`
	Category        string             `json:"category"`
	Recommendations []string           `json:"recommendations"`
	ComponentScores map[string]float64 `json:"component_scores"`
}
