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

type InvestmentHandler struct {
	analyticsService services.AnalyticsService
}

func NewInvestmentHandler(analyticsService services.AnalyticsService) *InvestmentHandler {
	return &InvestmentHandler{analyticsService: analyticsService}
}

type investmentRequest struct {
	Type         string  `json:"investment_type"`
	Symbol       string  `json:"symbol,omitempty"`
	Amount       float64 `json:"amount"`
	CurrentValue float64 `json:"current_value"`
	PurchaseDate string  `json:"purchase_date,omitempty"`
}

func (h *InvestmentHandler) HandleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req investmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Type = validation.SanitizeText(strings.TrimSpace(req.Type))
	if err := validation.ValidateStringNotEmpty(req.Type, "investment_type"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePositiveAmount(req.Amount, "amount"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.CurrentValue < 0 {
		sendJSONError(w, "current_value cannot be negative", http.StatusBadRequest)
		return
	}

	investment := models.Investment{
		UserID:       userID,
		Type:         req.Type,
		Symbol:       validation.SanitizeText(strings.TrimSpace(req.Symbol)),
		Amount:       req.Amount,
		CurrentValue: req.CurrentValue,
	}
	if req.PurchaseDate != "" {
		date, err := validation.ValidateDateString(req.PurchaseDate, "purchase_date")
		if err != nil {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		investment.PurchaseDate = &date
	}

	if err := investment.Insert(database.DB); err != nil {
		ctxLogger.Error("Failed to insert investment", "error", err)
		sendJSONError(w, "Failed to create investment", http.StatusInternalServerError)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(investment)
}

func (h *InvestmentHandler) HandleListInvestments(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	investments, err := models.ListInvestments(database.DB, userID)
	if err != nil {
		ctxLogger.Error("Failed to list investments", "error", err)
		sendJSONError(w, "Failed to list investments", http.StatusInternalServerError)
		return
	}
	if investments == nil {
		investments = []models.Investment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(investments)
}

func (h *InvestmentHandler) HandleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	investmentID, err := strconv.ParseInt(chi.URLParam(r, "investmentID"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid investment ID format", http.StatusBadRequest)
		return
	}

	deleted, err := models.DeleteInvestment(database.DB, userID, investmentID)
	if err != nil {
		ctxLogger.Error("Failed to delete investment", "investmentID", investmentID, "error", err)
		sendJSONError(w, "Failed to delete investment", http.StatusInternalServerError)
		return
	}
	if !deleted {
		sendJSONError(w, "Investment not found", http.StatusNotFound)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}
