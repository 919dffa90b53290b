package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/walidBc-blip/finance-dashboard/src/config"
	"github.com/walidBc-blip/finance-dashboard/src/database"
	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/models"
	"github.com/walidBc-blip/finance-dashboard/src/parsers/csvimport"
	"github.com/walidBc-blip/finance-dashboard/src/security/validation"
	"github.com/walidBc-blip/finance-dashboard/src/services"
)

type TransactionHandler struct {
	analyticsService   services.AnalyticsService
	categorizerService services.CategorizerService
}

func NewTransactionHandler(analyticsService services.AnalyticsService, categorizerService services.CategorizerService) *TransactionHandler {
	return &TransactionHandler{
		analyticsService:   analyticsService,
		categorizerService: categorizerService,
	}
}

type transactionRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"transaction_date"`
	Type        string  `json:"transaction_type"`
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidatePositiveAmount(req.Amount, "amount"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := validation.ValidateTransactionType(req.Type); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := validation.ValidateDateString(req.Date, "transaction_date")
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	req.Category = validation.SanitizeText(strings.TrimSpace(req.Category))
	req.Description = validation.SanitizeText(strings.TrimSpace(req.Description))
	if err := validation.ValidateStringMaxLength(req.Category, validation.MaxCategoryLength, "category"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateStringMaxLength(req.Description, validation.MaxDescriptionLength, "description"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// An omitted category is filled in from the description.
	if req.Category == "" {
		req.Category = h.categorizerService.PredictCategory(req.Description)
		ctxLogger.Debug("Auto-categorized transaction", "category", req.Category)
	}

	tx := models.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Type:        req.Type,
	}
	if err := tx.Insert(database.DB); err != nil {
		ctxLogger.Error("Failed to insert transaction", "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := models.ListTransactions(database.DB, userID, filter)
	if err != nil {
		ctxLogger.Error("Failed to list transactions", "error", err)
		sendJSONError(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

func parseTransactionFilter(r *http.Request) (models.TransactionFilter, error) {
	var filter models.TransactionFilter

	if v := r.URL.Query().Get("start_date"); v != "" {
		date, err := validation.ValidateDateString(v, "start_date")
		if err != nil {
			return filter, err
		}
		filter.StartDate = date
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		date, err := validation.ValidateDateString(v, "end_date")
		if err != nil {
			return filter, err
		}
		filter.EndDate = date
	}
	if v := r.URL.Query().Get("type"); v != "" {
		v = strings.ToLower(strings.TrimSpace(v))
		if err := validation.ValidateTransactionType(v); err != nil {
			return filter, err
		}
		filter.Type = v
	}
	filter.Category = validation.SanitizeText(r.URL.Query().Get("category"))

	return filter, nil
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	transactionID, err := strconv.ParseInt(chi.URLParam(r, "transactionID"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid transaction ID format", http.StatusBadRequest)
		return
	}

	deleted, err := models.DeleteTransaction(database.DB, userID, transactionID)
	if err != nil {
		ctxLogger.Error("Failed to delete transaction", "transactionID", transactionID, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	if !deleted {
		sendJSONError(w, "Transaction not found", http.StatusNotFound)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleImportCSV ingests a bank-statement CSV upload. Rows the parser
// rejects are reported back as a skipped count, not an error.
func (h *TransactionHandler) HandleImportCSV(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		sendJSONError(w, "Uploaded file is too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendJSONError(w, "Missing file in upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ctxLogger.Info("CSV import started", "filename", header.Filename, "size", header.Size)

	start := time.Now()
	result, err := csvimport.NewParser().Parse(file)
	if err != nil {
		ctxLogger.Warn("CSV import parse failed", "filename", header.Filename, "error", err)
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	imported := 0
	for i := range result.Transactions {
		tx := result.Transactions[i]
		tx.UserID = userID
		if tx.Category == "" {
			tx.Category = h.categorizerService.PredictCategory(tx.Description)
		}
		if err := tx.Insert(database.DB); err != nil {
			ctxLogger.Error("Failed to insert imported transaction", "error", err)
			result.SkippedRows++
			continue
		}
		imported++
	}

	h.analyticsService.InvalidateUserCache(userID)

	ctxLogger.Info("CSV import finished",
		"filename", header.Filename,
		"imported", imported,
		"skipped", result.SkippedRows,
		"duration", time.Since(start),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"imported_count": imported,
		"skipped_count":  result.SkippedRows,
	})
}
