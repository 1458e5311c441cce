package providers

import (
	"context"

	"github.com/pharmafind/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// stock-change events.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.StockEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.StockEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelStockUpdates is the channel carrying all inventory mutations.
const EventChannelStockUpdates = "stock:updates"
