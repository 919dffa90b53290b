package services

import (
	"errors"
	"time"

	"github.com/walidBc-blip/finance-dashboard/src/models"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// Common service errors.
var (
	// ErrInsufficientTrainingData is a terminal outcome, not a failure:
	// callers branch on it explicitly and any previously trained model
	// stays in place.
	ErrInsufficientTrainingData = errors.New("not enough labeled transactions to train the categorizer")
)

// AnalyticsService derives per-user reports from stored history. Results
// are cached per user and invalidated on every write.
type AnalyticsService interface {
	GetSpendingSummary(userID int64, months int) (models.SpendingSummary, error)
	GetBudgetAlerts(userID int64) ([]models.BudgetAlert, error)
	GetHealthScore(userID int64) (models.HealthScore, error)
	InvalidateUserCache(userID int64)
}

// CategorizerService owns the shared transaction categorization model:
// training from the stored corpus, prediction, and blob persistence.
type CategorizerService interface {
	// Train refits the model on the whole transaction corpus and persists
	// it. Returns the corpus size used, or ErrInsufficientTrainingData.
	Train() (int, error)
	// PredictCategory never fails; it falls back to the "Other" label.
	PredictCategory(description string) string
	IsTrained() bool
	// LoadPersistedModel restores the last saved model blob, if any.
	LoadPersistedModel() error
}
