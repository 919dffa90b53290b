package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/models"
	"github.com/walidBc-blip/finance-dashboard/src/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// HandleSpendingSummary reports totals, savings rate, top categories and
// monthly trends over the last N months (?months=, default 12).
func (h *AnalyticsHandler) HandleSpendingSummary(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	months := 0
	if v := r.URL.Query().Get("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 120 {
			sendJSONError(w, "months must be an integer between 1 and 120", http.StatusBadRequest)
			return
		}
		months = parsed
	}

	summary, err := h.analyticsService.GetSpendingSummary(userID, months)
	if err != nil {
		ctxLogger.Error("Failed to compute spending summary", "error", err)
		sendJSONError(w, "Failed to compute spending summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *AnalyticsHandler) HandleBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	alerts, err := h.analyticsService.GetBudgetAlerts(userID)
	if err != nil {
		ctxLogger.Error("Failed to compute budget alerts", "error", err)
		sendJSONError(w, "Failed to compute budget alerts", http.StatusInternalServerError)
		return
	}
	if alerts == nil {
		alerts = []models.BudgetAlert{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alerts)
}

func (h *AnalyticsHandler) HandleFinancialHealth(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	score, err := h.analyticsService.GetHealthScore(userID)
	if err != nil {
		ctxLogger.Error("Failed to compute financial health score", "error", err)
		sendJSONError(w, "Failed to compute financial health score", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(score)
}
