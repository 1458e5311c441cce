package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pharmafind/backend/internal/domain/entities"
)

// MedicationService is the autocomplete surface the HTTP layer needs.
type MedicationService interface {
	Autocomplete(ctx context.Context, term string, limit int) ([]entities.MedicationSuggestion, error)
}

// MedicationHandler handles medication catalog HTTP requests
type MedicationHandler struct {
	medications MedicationService
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(medications MedicationService) *MedicationHandler {
	return &MedicationHandler{medications: medications}
}

// Autocomplete handles GET /api/medications/autocomplete
func (h *MedicationHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		term = r.URL.Query().Get("term")
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	suggestions, err := h.medications.Autocomplete(r.Context(), term, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}
