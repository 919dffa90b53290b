package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/walidBc-blip/finance-dashboard/src/database"
	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/models"
	"github.com/walidBc-blip/finance-dashboard/src/security/validation"
	"github.com/walidBc-blip/finance-dashboard/src/services"
)

// DefaultAlertThreshold is applied when a budget request omits one.
const DefaultAlertThreshold = 0.8

type BudgetHandler struct {
	analyticsService services.AnalyticsService
}

func NewBudgetHandler(analyticsService services.AnalyticsService) *BudgetHandler {
	return &BudgetHandler{analyticsService: analyticsService}
}

type budgetRequest struct {
	Category       string   `json:"category"`
	MonthlyLimit   float64  `json:"monthly_limit"`
	AlertThreshold *float64 `json:"alert_threshold,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

// HandleUpsertBudget creates the budget for a category or replaces it. A user
// has at most one budget per category.
func (h *BudgetHandler) HandleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Category = validation.SanitizeText(strings.TrimSpace(req.Category))
	if err := validation.ValidateStringNotEmpty(req.Category, "category"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringMaxLength(req.Category, validation.MaxCategoryLength, "category"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePositiveAmount(req.MonthlyLimit, "monthly_limit"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	alertThreshold := DefaultAlertThreshold
	if req.AlertThreshold != nil {
		if err := validation.ValidateAlertThreshold(*req.AlertThreshold); err != nil {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		alertThreshold = *req.AlertThreshold
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	budget := models.Budget{
		UserID:         userID,
		Category:       req.Category,
		MonthlyLimit:   req.MonthlyLimit,
		AlertThreshold: alertThreshold,
		IsActive:       isActive,
	}
	if err := budget.Upsert(database.DB); err != nil {
		ctxLogger.Error("Failed to upsert budget", "category", req.Category, "error", err)
		sendJSONError(w, "Failed to save budget", http.StatusInternalServerError)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(budget)
}

func (h *BudgetHandler) HandleListBudgets(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	budgets, err := models.ListActiveBudgets(database.DB, userID)
	if err != nil {
		ctxLogger.Error("Failed to list budgets", "error", err)
		sendJSONError(w, "Failed to list budgets", http.StatusInternalServerError)
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(budgets)
}

func (h *BudgetHandler) HandleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	budgetID, err := strconv.ParseInt(chi.URLParam(r, "budgetID"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid budget ID format", http.StatusBadRequest)
		return
	}

	deleted, err := models.DeleteBudget(database.DB, userID, budgetID)
	if err != nil {
		ctxLogger.Error("Failed to delete budget", "budgetID", budgetID, "error", err)
		sendJSONError(w, "Failed to delete budget", http.StatusInternalServerError)
		return
	}
	if !deleted {
		sendJSONError(w, "Budget not found", http.StatusNotFound)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}
