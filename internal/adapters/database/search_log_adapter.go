package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/pharmafind/backend/internal/domain/entities"
	"github.com/pharmafind/backend/internal/domain/repositories"
	"github.com/pharmafind/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/pharmafind/backend/pkg/errors"
)

// SearchLogAdapter implements SearchLogRepository
type SearchLogAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchLogAdapter creates a new search log adapter
func NewSearchLogAdapter(client *postgres.Client) repositories.SearchLogRepository {
	return &SearchLogAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LogEvent appends a search event
func (a *SearchLogAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.SearchedAt.IsZero() {
		event.SearchedAt = time.Now()
	}

	// filters_applied is stored verbatim as JSON; the core never
	// interprets its shape.
	record := goqu.Record{
		"id":              event.ID,
		"medication_id":   event.MedicationID,
		"latitude":        event.Latitude,
		"longitude":       event.Longitude,
		"radius_km":       event.RadiusKm,
		"filters_applied": []byte(event.FiltersApplied),
		"results_found":   event.ResultsFound,
		"searched_at":     event.SearchedAt,
	}

	query, args, err := a.db.Insert("searches").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewUnavailableError("failed to log search event", err)
	}

	return nil
}

// GetZeroResultSearches returns recent searches that found nothing
func (a *SearchLogAdapter) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.Select(
		"id", "medication_id", "latitude", "longitude", "radius_km",
		"filters_applied", "results_found", "searched_at",
	).
		From("searches").
		Where(goqu.Ex{"results_found": 0}).
		Order(goqu.I("searched_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewUnavailableError("failed to get zero result searches", err)
	}
	defer rows.Close()

	var events []*entities.SearchEvent
	for rows.Next() {
		e := &entities.SearchEvent{}
		var filters []byte
		err := rows.Scan(
			&e.ID,
			&e.MedicationID,
			&e.Latitude,
			&e.Longitude,
			&e.RadiusKm,
			&filters,
			&e.ResultsFound,
			&e.SearchedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		e.FiltersApplied = filters
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewUnavailableError("error iterating search events", err)
	}

	return events, nil
}
