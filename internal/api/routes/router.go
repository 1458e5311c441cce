package routes

import (
	"net/http"

	"github.com/pharmafind/backend/internal/api/handlers"
	"github.com/pharmafind/backend/internal/api/middleware"
	"github.com/pharmafind/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler     *handlers.SearchHandler
	medicationHandler *handlers.MedicationHandler
	analyticsHandler  *handlers.AnalyticsHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	medicationHandler *handlers.MedicationHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		searchHandler:     searchHandler,
		medicationHandler: medicationHandler,
		analyticsHandler:  analyticsHandler,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints
	r.mux.HandleFunc("GET /api/search", r.searchHandler.SearchPharmacies)
	r.mux.HandleFunc("GET /api/search/nearby", r.searchHandler.GetNearbyPharmacies)

	// Medication endpoints
	r.mux.HandleFunc("GET /api/medications/autocomplete", r.medicationHandler.Autocomplete)

	// Admin analytics endpoints
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/admin/analytics/zero-result-searches", r.analyticsHandler.GetZeroResultSearches)
	}

	// Middleware applies in reverse order; CORS is outermost so every
	// response carries its headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
