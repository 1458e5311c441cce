package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/repositories"
)

// SearchAnalyticsService records search usage. Logging is fire-and-forget:
// a lost event degrades analytics, never a patient-facing search.
type SearchAnalyticsService struct {
	repo repositories.SearchLogRepository
}

func NewSearchAnalyticsService(repo repositories.SearchLogRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// TrackSearch appends a search event in the background. The write uses a
// fresh context because the request context is usually cancelled by the
// time the handler has responded.
func (s *SearchAnalyticsService) TrackSearch(_ context.Context, event *entities.SearchEvent) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			log.Warn().Err(err).Str("medication_id", event.MedicationID).Msg("failed to log search event")
		}
	}()
}

// GetZeroResultSearches lists recent searches that found nothing, used to
// spot catalog and stock gaps.
func (s *SearchAnalyticsService) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetZeroResultSearches(ctx, limit)
}
