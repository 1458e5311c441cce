package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/pkg/geo"
)

// SearchService is the part of the search core the HTTP layer needs.
type SearchService interface {
	SearchPharmacies(ctx context.Context, filters entities.SearchFilters) ([]entities.SearchResult, error)
	GetNearbyPharmacies(ctx context.Context, origin geo.Point, radiusKm float64) ([]entities.NearbyPharmacy, error)
}

// SearchHandler handles pharmacy search HTTP requests
type SearchHandler struct {
	search SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// SearchPharmacies handles GET /api/search
func (h *SearchHandler) SearchPharmacies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	origin, ok := parsePoint(w, query.Get("latitude"), query.Get("longitude"))
	if !ok {
		return
	}

	filters := entities.SearchFilters{
		Term:         query.Get("term"),
		MedicationID: query.Get("medication_id"),
		Origin:       origin,
	}

	if raw := query.Get("radius_km"); raw != "" {
		radius, ok := parseRadius(w, raw)
		if !ok {
			return
		}
		filters.RadiusKm = radius
	}
	if raw := query.Get("is_open"); raw != "" {
		isOpen, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "is_open must be a boolean")
			return
		}
		filters.IsOpen = &isOpen
	}
	if raw := query.Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			respondWithError(w, http.StatusBadRequest, "max_price must be a non-negative number")
			return
		}
		filters.MaxPrice = &maxPrice
	}

	results, err := h.search.SearchPharmacies(r.Context(), filters)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// GetNearbyPharmacies handles GET /api/search/nearby
func (h *SearchHandler) GetNearbyPharmacies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	origin, ok := parsePoint(w, query.Get("latitude"), query.Get("longitude"))
	if !ok {
		return
	}

	var radius float64
	if raw := query.Get("radius_km"); raw != "" {
		parsed, ok := parseRadius(w, raw)
		if !ok {
			return
		}
		radius = parsed
	}

	pharmacies, err := h.search.GetNearbyPharmacies(r.Context(), origin, radius)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pharmacies": pharmacies,
		"count":      len(pharmacies),
	})
}

// parseRadius reads a supplied radius_km value. Leaving the parameter out
// gets the service default, but an explicit value below 1 km is an error.
func parseRadius(w http.ResponseWriter, raw string) (float64, bool) {
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "radius_km must be a number")
		return 0, false
	}
	if radius < 1 {
		respondWithError(w, http.StatusBadRequest, "radius_km must be at least 1")
		return 0, false
	}
	return radius, true
}

// parsePoint reads the mandatory latitude/longitude pair, writing a 400
// response when they are missing or malformed.
func parsePoint(w http.ResponseWriter, rawLat, rawLng string) (geo.Point, bool) {
	if rawLat == "" || rawLng == "" {
		respondWithError(w, http.StatusBadRequest, "latitude and longitude are required")
		return geo.Point{}, false
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "latitude must be a number")
		return geo.Point{}, false
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "longitude must be a number")
		return geo.Point{}, false
	}
	return geo.Point{Latitude: lat, Longitude: lng}, true
}
