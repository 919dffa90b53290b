package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/walidBc-blip/finance-dashboard/src/logger"
	"github.com/walidBc-blip/finance-dashboard/src/security/validation"
	"github.com/walidBc-blip/finance-dashboard/src/services"
)

type CategorizerHandler struct {
	categorizerService services.CategorizerService
}

func NewCategorizerHandler(categorizerService services.CategorizerService) *CategorizerHandler {
	return &CategorizerHandler{categorizerService: categorizerService}
}

// HandleTrain refits the shared categorization model on the stored corpus.
// Too little data is a 422 with the current count, not a server error.
func (h *CategorizerHandler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	count, err := h.categorizerService.Train()
	if err != nil {
		if errors.Is(err, services.ErrInsufficientTrainingData) {
			ctxLogger.Info("Categorizer training declined", "samples", count)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":        "Not enough labeled transactions to train the categorizer",
				"sample_count": count,
			})
			return
		}
		ctxLogger.Error("Categorizer training failed", "error", err)
		sendJSONError(w, "Failed to train categorizer", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Categorizer trained successfully",
		"sample_count": count,
	})
}

func (h *CategorizerHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Description = validation.SanitizeText(strings.TrimSpace(req.Description))
	if err := validation.ValidateStringNotEmpty(req.Description, "description"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	category := h.categorizerService.PredictCategory(req.Description)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"description": req.Description,
		"category":    category,
		"is_trained":  h.categorizerService.IsTrained(),
	})
}
