package repositories

import (
	"context"

	"github.com/pharmafind/backend/internal/domain/entities"
)

// SearchLogRepository is the append-only sink for search usage entries.
type SearchLogRepository interface {
	// LogEvent appends a search event
	LogEvent(ctx context.Context, event *entities.SearchEvent) error

	// GetZeroResultSearches returns recent searches that found nothing,
	// consumed by the admin-analytics collaborator.
	GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
