package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/walidBc-blip/finance-dashboard/src/analytics"
	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/models"
)

// Cache key formats, one per cached report.
const (
	ckSpendingSummary = "spending_summary_%d_%d"
	ckBudgetAlerts    = "budget_alerts_%d"
	ckHealthScore     = "health_score_%d"
)

// DefaultSummaryMonths is the report window used when the caller does not ask
// for a specific one.
const DefaultSummaryMonths = 12

type analyticsServiceImpl struct {
	db          *sql.DB
	reportCache *cache.Cache
}

func NewAnalyticsService(db *sql.DB, reportCache *cache.Cache) AnalyticsService {
	return &analyticsServiceImpl{db: db, reportCache: reportCache}
}

// GetSpendingSummary aggregates the user's transactions over the last
// `months` months. Monthly trends are truncated to the requested window.
func (s *analyticsServiceImpl) GetSpendingSummary(userID int64, months int) (models.SpendingSummary, error) {
	if months <= 0 {
		months = DefaultSummaryMonths
	}

	cacheKey := fmt.Sprintf(ckSpendingSummary, userID, months)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.SpendingSummary), nil
	}

	transactions, err := models.ListTransactions(s.db, userID, models.TransactionFilter{
		StartDate: windowStart(time.Now(), months),
	})
	if err != nil {
		return models.SpendingSummary{}, fmt.Errorf("loading transactions for summary: %w", err)
	}

	summary := analytics.Summarize(transactions)
	summary.MonthlyTrends = analytics.LastMonths(summary.MonthlyTrends, months)

	s.reportCache.Set(cacheKey, summary, cache.DefaultExpiration)
	return summary, nil
}

// GetBudgetAlerts evaluates every active budget against the current calendar
// month's expenses.
func (s *analyticsServiceImpl) GetBudgetAlerts(userID int64) ([]models.BudgetAlert, error) {
	cacheKey := fmt.Sprintf(ckBudgetAlerts, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.BudgetAlert), nil
	}

	budgets, err := models.ListActiveBudgets(s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("loading budgets: %w", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	transactions, err := models.ListTransactions(s.db, userID, models.TransactionFilter{
		StartDate: monthStart,
		Type:      models.TransactionTypeExpense,
	})
	if err != nil {
		return nil, fmt.Errorf("loading current month expenses: %w", err)
	}

	alerts := analytics.EvaluateBudgets(budgets, transactions, now)

	s.reportCache.Set(cacheKey, alerts, cache.DefaultExpiration)
	return alerts, nil
}

// GetHealthScore computes the composite financial health score over the last
// six months of activity.
func (s *analyticsServiceImpl) GetHealthScore(userID int64) (models.HealthScore, error) {
	cacheKey := fmt.Sprintf(ckHealthScore, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.HealthScore), nil
	}

	transactions, err := models.ListTransactions(s.db, userID, models.TransactionFilter{
		StartDate: windowStart(time.Now(), analytics.ScoreWindowMonths),
	})
	if err != nil {
		return models.HealthScore{}, fmt.Errorf("loading transactions for health score: %w", err)
	}
	budgets, err := models.ListActiveBudgets(s.db, userID)
	if err != nil {
		return models.HealthScore{}, fmt.Errorf("loading budgets for health score: %w", err)
	}
	goals, err := models.ListSavingsGoals(s.db, userID)
	if err != nil {
		return models.HealthScore{}, fmt.Errorf("loading goals for health score: %w", err)
	}
	investments, err := models.ListInvestments(s.db, userID)
	if err != nil {
		return models.HealthScore{}, fmt.Errorf("loading investments for health score: %w", err)
	}

	score := analytics.ScoreHealth(transactions, budgets, goals, investments)

	s.reportCache.Set(cacheKey, score, cache.DefaultExpiration)
	return score, nil
}

// InvalidateUserCache drops every cached report for the user. Called after
// any write that can change a report.
func (s *analyticsServiceImpl) InvalidateUserCache(userID int64) {
	for _, key := range s.userCacheKeys(userID) {
		s.reportCache.Delete(key)
	}
	logger.L.Debug("Invalidated analytics cache", "userID", userID)
}

func (s *analyticsServiceImpl) userCacheKeys(userID int64) []string {
	keys := []string{
		fmt.Sprintf(ckBudgetAlerts, userID),
		fmt.Sprintf(ckHealthScore, userID),
	}
	// Summary keys carry the window, so sweep the cache for this user's.
	prefix := fmt.Sprintf("spending_summary_%d_", userID)
	for key := range s.reportCache.Items() {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	return keys
}

// windowStart returns the report window lower bound: months of 30 days back
// from now.
func windowStart(now time.Time, months int) time.Time {
	return now.AddDate(0, 0, -months*30)
}
