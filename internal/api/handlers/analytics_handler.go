package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pharmafind/backend/internal/domain/entities"
)

const defaultZeroResultLimit = 50

// AnalyticsService exposes search usage data to the admin surface.
type AnalyticsService interface {
	GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// AnalyticsHandler handles admin analytics HTTP requests
type AnalyticsHandler struct {
	analytics AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetZeroResultSearches handles GET /api/admin/analytics/zero-result-searches
func (h *AnalyticsHandler) GetZeroResultSearches(w http.ResponseWriter, r *http.Request) {
	limit := defaultZeroResultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	searches, err := h.analytics.GetZeroResultSearches(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searches": searches,
		"count":    len(searches),
	})
}
