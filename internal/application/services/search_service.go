package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/providers"
	"github.com/pharmafind/backend/internal/domain/repositories"
	"github.com/pharmafind/backend/internal/infrastructure/observability"
	"github.com/pharmafind/backend/pkg/config"
	"github.com/pharmafind/backend/pkg/errors"
	"github.com/pharmafind/backend/pkg/geo"
)

// minRadiusKm is the smallest radius a caller may supply. A zero radius
// means the caller left it out and gets the configured default.
const minRadiusKm = 1

// SearchService orchestrates medication availability searches: term
// resolution, cached proximity lookup and post-cache filtering.
type SearchService struct {
	inventory   repositories.InventoryRepository
	pharmacies  repositories.PharmacyRepository
	medications *MedicationService
	analytics   *SearchAnalyticsService
	cache       providers.CacheProvider
	metrics     *observability.Metrics
	cfg         config.SearchConfig

	// now is swappable so open-now evaluation is testable.
	now func() time.Time
}

func NewSearchService(
	inventory repositories.InventoryRepository,
	pharmacies repositories.PharmacyRepository,
	medications *MedicationService,
	analytics *SearchAnalyticsService,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
	cfg config.SearchConfig,
) *SearchService {
	return &SearchService{
		inventory:   inventory,
		pharmacies:  pharmacies,
		medications: medications,
		analytics:   analytics,
		cache:       cache,
		metrics:     metrics,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SearchPharmacies finds verified pharmacies stocking a medication near
// the caller, closest first. The proximity result set is cached per
// (medication, origin, radius); open-now and price filters are applied
// after the cache so a cached entry serves every filter combination.
func (s *SearchService) SearchPharmacies(ctx context.Context, filters entities.SearchFilters) ([]entities.SearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.SearchPharmacies")
	defer span.End()

	if err := filters.Origin.Validate(); err != nil {
		return nil, err
	}
	if filters.MedicationID == "" && filters.Term == "" {
		return nil, errors.NewValidationError("either medication_id or term is required")
	}
	radius, err := s.resolveRadius(filters.RadiusKm)
	if err != nil {
		return nil, err
	}

	med, err := s.resolveMedication(ctx, filters)
	if err != nil {
		return nil, err
	}

	nearby, err := s.nearbyStock(ctx, med.ID, filters.Origin, radius)
	if err != nil {
		return nil, err
	}

	results := s.applyPostCacheFilters(nearby, filters)

	s.trackSearch(ctx, med.ID, filters, radius, len(results))
	observability.RecordSearch(ctx, s.metrics, len(results))
	return results, nil
}

// GetNearbyPharmacies lists verified pharmacies around a point without a
// medication filter, for map browsing.
func (s *SearchService) GetNearbyPharmacies(ctx context.Context, origin geo.Point, radiusKm float64) ([]entities.NearbyPharmacy, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.GetNearbyPharmacies")
	defer span.End()

	if err := origin.Validate(); err != nil {
		return nil, err
	}
	radius, err := s.resolveRadius(radiusKm)
	if err != nil {
		return nil, err
	}

	listCtx, cancel := s.storageContext(ctx)
	defer cancel()
	pharmacies, err := s.pharmacies.ListVerified(listCtx)
	if err != nil {
		return nil, asUnavailable(err, "pharmacy storage unavailable")
	}

	now := s.now()
	nearby := make([]entities.NearbyPharmacy, 0, len(pharmacies))
	for _, p := range pharmacies {
		d := geo.DistanceKm(origin, p.Location)
		if d > radius {
			continue
		}
		nearby = append(nearby, entities.NearbyPharmacy{
			Pharmacy:   *p,
			DistanceKm: d,
			IsOpenNow:  p.Schedule.IsOpenAt(now),
		})
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// resolveMedication prefers an explicit medication id over a free-text term.
func (s *SearchService) resolveMedication(ctx context.Context, filters entities.SearchFilters) (*entities.Medication, error) {
	if filters.MedicationID != "" {
		return s.medications.GetByID(ctx, filters.MedicationID)
	}
	return s.medications.ResolveBest(ctx, filters.Term)
}

// nearbyStock returns the radius-filtered, distance-sorted stock rows for
// a medication, read through the cache.
func (s *SearchService) nearbyStock(ctx context.Context, medicationID string, origin geo.Point, radiusKm float64) ([]entities.SearchResult, error) {
	key := searchCacheKey(medicationID, origin, radiusKm)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var results []entities.SearchResult
		if err := json.Unmarshal(cached, &results); err == nil {
			observability.RecordCacheHit(ctx, s.metrics, key)
			return results, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable search cache entry")
	}
	observability.RecordCacheMiss(ctx, s.metrics, key)

	fetchCtx, cancel := s.storageContext(ctx)
	defer cancel()
	items, err := s.inventory.FindAvailable(fetchCtx, repositories.StockQuery{MedicationID: medicationID})
	if err != nil {
		return nil, asUnavailable(err, "inventory storage unavailable")
	}

	results := make([]entities.SearchResult, 0, len(items))
	for _, item := range items {
		if item.Pharmacy == nil {
			continue
		}
		d := geo.DistanceKm(origin, item.Pharmacy.Location)
		if d > radiusKm {
			continue
		}
		results = append(results, entities.SearchResult{
			InventoryItem: *item,
			DistanceKm:    d,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	if payload, err := json.Marshal(results); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.cfg.ResultCacheTTL); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("search cache set failed")
		}
	}
	return results, nil
}

// applyPostCacheFilters evaluates the time-sensitive and per-request
// filters that must never be baked into a cached entry.
func (s *SearchService) applyPostCacheFilters(nearby []entities.SearchResult, filters entities.SearchFilters) []entities.SearchResult {
	now := s.now()
	results := make([]entities.SearchResult, 0, len(nearby))
	for _, r := range nearby {
		if r.Pharmacy != nil {
			r.IsOpenNow = r.Pharmacy.Schedule.IsOpenAt(now)
		}
		if filters.IsOpen != nil && *filters.IsOpen && !r.IsOpenNow {
			continue
		}
		if filters.MaxPrice != nil && r.SellingPriceFcfa > *filters.MaxPrice {
			continue
		}
		results = append(results, r)
	}
	return results
}

func (s *SearchService) trackSearch(ctx context.Context, medicationID string, filters entities.SearchFilters, radiusKm float64, resultsFound int) {
	if s.analytics == nil {
		return
	}
	applied, err := json.Marshal(filters)
	if err != nil {
		applied = nil
	}
	s.analytics.TrackSearch(ctx, &entities.SearchEvent{
		MedicationID:   medicationID,
		Latitude:       filters.Origin.Latitude,
		Longitude:      filters.Origin.Longitude,
		RadiusKm:       radiusKm,
		FiltersApplied: applied,
		ResultsFound:   resultsFound,
	})
}

// storageContext bounds one storage round-trip so a slow database cannot
// hold a search request past its budget.
func (s *SearchService) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.StorageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.StorageTimeout)
}

// resolveRadius applies the radius contract: absent (zero) falls back to
// the default, anything below 1 km is rejected, oversized is clamped.
func (s *SearchService) resolveRadius(radiusKm float64) (float64, error) {
	switch {
	case radiusKm == 0:
		return s.cfg.DefaultRadiusKm, nil
	case radiusKm < minRadiusKm:
		return 0, errors.NewValidationError(
			fmt.Sprintf("radius_km must be at least %d", minRadiusKm))
	case radiusKm > s.cfg.MaxRadiusKm:
		return s.cfg.MaxRadiusKm, nil
	}
	return radiusKm, nil
}

// searchCacheKey identifies one (medication, origin, radius) result set.
// Coordinates are rounded to four decimals, about 11 m, so nearby callers
// share entries.
func searchCacheKey(medicationID string, origin geo.Point, radiusKm float64) string {
	return fmt.Sprintf("search:%s:%.4f:%.4f:%g", medicationID, origin.Latitude, origin.Longitude, radiusKm)
}
