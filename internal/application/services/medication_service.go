package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/providers"
	"github.com/pharmafind/backend/internal/domain/repositories"
	"github.com/pharmafind/backend/internal/infrastructure/observability"
	"github.com/pharmafind/backend/pkg/errors"
)

const (
	minAutocompleteTermLen = 2

	catalogCacheKey        = "medications:catalog"
	catalogCacheTTLSeconds = 600
)

// MedicationService answers autocomplete queries and resolves free-text
// terms to catalog medications for the search flow.
type MedicationService struct {
	repo               repositories.MedicationRepository
	cache              providers.CacheProvider
	metrics            *observability.Metrics
	autocompleteLimit  int
	autocompleteTTLSec int
}

func NewMedicationService(
	repo repositories.MedicationRepository,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
	autocompleteLimit int,
	autocompleteTTLSeconds int,
) *MedicationService {
	return &MedicationService{
		repo:               repo,
		cache:              cache,
		metrics:            metrics,
		autocompleteLimit:  autocompleteLimit,
		autocompleteTTLSec: autocompleteTTLSeconds,
	}
}

// Autocomplete returns ranked suggestions for a partial medication name.
// A non-positive limit falls back to the configured default. Results are
// served read-through from cache keyed on the normalized term and limit.
func (s *MedicationService) Autocomplete(ctx context.Context, term string, limit int) ([]entities.MedicationSuggestion, error) {
	q := strings.ToLower(strings.TrimSpace(term))
	if len([]rune(q)) < minAutocompleteTermLen {
		return nil, errors.NewValidationError(
			fmt.Sprintf("search term must be at least %d characters", minAutocompleteTermLen))
	}
	if limit <= 0 {
		limit = s.autocompleteLimit
	}

	key := fmt.Sprintf("autocomplete:%s:%d", q, limit)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var suggestions []entities.MedicationSuggestion
		if err := json.Unmarshal(cached, &suggestions); err == nil {
			observability.RecordCacheHit(ctx, s.metrics, key)
			return suggestions, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable autocomplete cache entry")
	}
	observability.RecordCacheMiss(ctx, s.metrics, key)

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := rankMedications(q, catalog, limit)

	if payload, err := json.Marshal(suggestions); err == nil {
		if err := s.cache.Set(ctx, key, payload, s.autocompleteTTLSec); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("autocomplete cache set failed")
		}
	}
	return suggestions, nil
}

// ResolveBest maps a free-text term to the single best catalog match.
// Returns a not-found error when nothing in the catalog qualifies.
func (s *MedicationService) ResolveBest(ctx context.Context, term string) (*entities.Medication, error) {
	q := strings.ToLower(strings.TrimSpace(term))
	if len([]rune(q)) < minAutocompleteTermLen {
		return nil, errors.NewValidationError(
			fmt.Sprintf("search term must be at least %d characters", minAutocompleteTermLen))
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rankMedications(q, catalog, 1)
	if len(ranked) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no medication matches %q", term))
	}
	return s.GetByID(ctx, ranked[0].ID)
}

// GetByID retrieves a single medication from the catalog.
func (s *MedicationService) GetByID(ctx context.Context, id string) (*entities.Medication, error) {
	med, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("medication %s not found", id))
	}
	return med, nil
}

// catalog loads the whole medication catalog through the cache. The
// catalog is the candidate pool for fuzzy matching and changes rarely.
func (s *MedicationService) catalog(ctx context.Context) ([]*entities.Medication, error) {
	if cached, err := s.cache.Get(ctx, catalogCacheKey); err == nil {
		var meds []*entities.Medication
		if err := json.Unmarshal(cached, &meds); err == nil {
			observability.RecordCacheHit(ctx, s.metrics, catalogCacheKey)
			return meds, nil
		}
	}
	observability.RecordCacheMiss(ctx, s.metrics, catalogCacheKey)

	meds, err := s.repo.ListCatalog(ctx)
	if err != nil {
		return nil, asUnavailable(err, "medication catalog unavailable")
	}

	if payload, err := json.Marshal(meds); err == nil {
		if err := s.cache.Set(ctx, catalogCacheKey, payload, catalogCacheTTLSeconds); err != nil {
			log.Debug().Err(err).Msg("catalog cache set failed")
		}
	}
	return meds, nil
}
