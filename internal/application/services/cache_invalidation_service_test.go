package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pharmafind/backend/internal/domain/entities"
)

type fakeEventBus struct {
	mu       sync.Mutex
	channels map[string]chan *entities.StockEvent
}

func newFakeEventBus() *fakeEventBus {
	return &fakeEventBus{channels: make(map[string]chan *entities.StockEvent)}
}

func (b *fakeEventBus) Publish(_ context.Context, channel string, event *entities.StockEvent) error {
	b.mu.Lock()
	ch, ok := b.channels[channel]
	b.mu.Unlock()
	if ok {
		ch <- event
	}
	return nil
}

func (b *fakeEventBus) Subscribe(_ context.Context, channel string) (<-chan *entities.StockEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.StockEvent, 16)
	b.channels[channel] = ch
	return ch, nil
}

func (b *fakeEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.channels {
		close(ch)
	}
	b.channels = make(map[string]chan *entities.StockEvent)
	return nil
}

func TestCacheInvalidation_DropsAffectedMedicationOnly(t *testing.T) {
	cache := newMemCache()
	bus := newFakeEventBus()
	ctx := context.Background()

	_ = cache.Set(ctx, "search:m1:3.8667:11.5167:10", []byte("a"), 120)
	_ = cache.Set(ctx, "search:m1:3.9000:11.5000:5", []byte("b"), 120)
	_ = cache.Set(ctx, "search:m2:3.8667:11.5167:10", []byte("c"), 120)
	_ = cache.Set(ctx, "autocomplete:doli", []byte("d"), 300)

	svc := NewCacheInvalidationService(cache, bus)
	assert.NoError(t, svc.Start())
	defer svc.Stop()

	err := bus.Publish(ctx, "stock:updates",
		entities.NewStockEvent("ph-1", "m1", entities.StockEventTypeDepletion, 0))
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(cache.keys()) == 2
	}, time.Second, 10*time.Millisecond)

	_, err = cache.Get(ctx, "search:m2:3.8667:11.5167:10")
	assert.NoError(t, err)
	_, err = cache.Get(ctx, "autocomplete:doli")
	assert.NoError(t, err)
}

func TestCacheInvalidation_StopEndsProcessing(t *testing.T) {
	cache := newMemCache()
	bus := newFakeEventBus()
	ctx := context.Background()

	_ = cache.Set(ctx, "search:m1:3.8667:11.5167:10", []byte("a"), 120)

	svc := NewCacheInvalidationService(cache, bus)
	assert.NoError(t, svc.Start())
	svc.Stop()

	// Give the subscriber loop a moment to observe the cancellation.
	time.Sleep(20 * time.Millisecond)
	_ = bus.Publish(ctx, "stock:updates",
		entities.NewStockEvent("ph-1", "m1", entities.StockEventTypeRestock, 5))
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, cache.keys(), 1)
}
