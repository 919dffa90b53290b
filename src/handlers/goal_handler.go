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

type GoalHandler struct {
	analyticsService services.AnalyticsService
}

func NewGoalHandler(analyticsService services.AnalyticsService) *GoalHandler {
	return &GoalHandler{analyticsService: analyticsService}
}

type goalRequest struct {
	GoalName      string  `json:"goal_name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    string  `json:"target_date,omitempty"`
	Category      string  `json:"category,omitempty"`
}

func (h *GoalHandler) HandleCreateGoal(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.GoalName = validation.SanitizeText(strings.TrimSpace(req.GoalName))
	if err := validation.ValidateStringNotEmpty(req.GoalName, "goal_name"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringMaxLength(req.GoalName, validation.MaxGoalNameLength, "goal_name"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePositiveAmount(req.TargetAmount, "target_amount"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.CurrentAmount < 0 {
		sendJSONError(w, "current_amount cannot be negative", http.StatusBadRequest)
		return
	}

	goal := models.SavingsGoal{
		UserID:        userID,
		GoalName:      req.GoalName,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Category:      validation.SanitizeText(strings.TrimSpace(req.Category)),
		IsAchieved:    req.CurrentAmount >= req.TargetAmount,
	}
	if req.TargetDate != "" {
		date, err := validation.ValidateDateString(req.TargetDate, "target_date")
		if err != nil {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		goal.TargetDate = &date
	}

	if err := goal.Insert(database.DB); err != nil {
		ctxLogger.Error("Failed to insert savings goal", "error", err)
		sendJSONError(w, "Failed to create savings goal", http.StatusInternalServerError)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(goal)
}

func (h *GoalHandler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	goals, err := models.ListSavingsGoals(database.DB, userID)
	if err != nil {
		ctxLogger.Error("Failed to list savings goals", "error", err)
		sendJSONError(w, "Failed to list savings goals", http.StatusInternalServerError)
		return
	}
	if goals == nil {
		goals = []models.SavingsGoal{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

// HandleUpdateGoalAmount sets a goal's saved amount. Achievement is derived
// from the new amount, never sent by the client.
func (h *GoalHandler) HandleUpdateGoalAmount(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	goalID, err := strconv.ParseInt(chi.URLParam(r, "goalID"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid goal ID format", http.StatusBadRequest)
		return
	}

	var req struct {
		CurrentAmount float64 `json:"current_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CurrentAmount < 0 {
		sendJSONError(w, "current_amount cannot be negative", http.StatusBadRequest)
		return
	}

	updated, err := models.UpdateSavingsGoalAmount(database.DB, userID, goalID, req.CurrentAmount)
	if err != nil {
		ctxLogger.Error("Failed to update savings goal amount", "goalID", goalID, "error", err)
		sendJSONError(w, "Failed to update savings goal", http.StatusInternalServerError)
		return
	}
	if !updated {
		sendJSONError(w, "Savings goal not found", http.StatusNotFound)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) HandleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	goalID, err := strconv.ParseInt(chi.URLParam(r, "goalID"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid goal ID format", http.StatusBadRequest)
		return
	}

	deleted, err := models.DeleteSavingsGoal(database.DB, userID, goalID)
	if err != nil {
		ctxLogger.Error("Failed to delete savings goal", "goalID", goalID, "error", err)
		sendJSONError(w, "Failed to delete savings goal", http.StatusInternalServerError)
		return
	}
	if !deleted {
		sendJSONError(w, "Savings goal not found", http.StatusNotFound)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}
