package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/providers"
)

// CacheInvalidationService drops cached search results when inventory
// changes, so patients never travel to a pharmacy on stale stock data.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to stock updates and begins invalidating in the
// background.
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelStockUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to stock updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service.
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.StockEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent drops every cached search result set for the affected
// medication. Autocomplete entries are left to expire on their TTL since
// stock changes do not alter the catalog.
func (s *CacheInvalidationService) handleEvent(event *entities.StockEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pattern := fmt.Sprintf("search:%s:*", event.MedicationID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		log.Warn().Err(err).
			Str("medication_id", event.MedicationID).
			Str("event_type", string(event.EventType)).
			Msg("failed to invalidate search cache")
		return
	}
	log.Debug().
		Str("medication_id", event.MedicationID).
		Str("event_type", string(event.EventType)).
		Msg("invalidated search cache")
}
