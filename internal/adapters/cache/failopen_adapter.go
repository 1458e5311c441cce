package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/pharmafind/backend/internal/domain/providers"
)

// FailOpenAdapter wraps a CacheProvider so that backend failures degrade
// to cache misses instead of reaching the search path. Every operation is
// bounded by its own timeout, and a circuit breaker skips a backend that
// keeps failing so requests are not stalled waiting out timeouts.
type FailOpenAdapter struct {
	inner   providers.CacheProvider
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewFailOpenAdapter creates a fail-open decorator around inner
func NewFailOpenAdapter(inner providers.CacheProvider, timeout time.Duration) providers.CacheProvider {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "cache",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &FailOpenAdapter{
		inner:   inner,
		breaker: breaker,
		timeout: timeout,
	}
}

// Get retrieves a value; any backend failure is reported as a miss.
// A genuine miss is a healthy response and does not count against the
// breaker.
func (a *FailOpenAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.breaker.Execute(func() (interface{}, error) {
		opCtx, cancel := a.opContext(ctx)
		defer cancel()
		value, err := a.inner.Get(opCtx, key)
		if err == providers.ErrCacheMiss {
			return nil, nil
		}
		return value, err
	})
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache get degraded to miss")
		return nil, providers.ErrCacheMiss
	}
	if result == nil {
		return nil, providers.ErrCacheMiss
	}
	return result.([]byte), nil
}

// Set stores a value; failures are swallowed.
func (a *FailOpenAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		opCtx, cancel := a.opContext(ctx)
		defer cancel()
		return nil, a.inner.Set(opCtx, key, value, expirationSeconds)
	})
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set dropped")
	}
	return nil
}

// Delete removes a value; failures are swallowed.
func (a *FailOpenAdapter) Delete(ctx context.Context, key string) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		opCtx, cancel := a.opContext(ctx)
		defer cancel()
		return nil, a.inner.Delete(opCtx, key)
	})
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache delete dropped")
	}
	return nil
}

// DeletePattern removes matching keys; failures are swallowed.
func (a *FailOpenAdapter) DeletePattern(ctx context.Context, pattern string) error {
	_, err := a.breaker.Execute(func() (interface{}, error) {
		opCtx, cancel := a.opContext(ctx)
		defer cancel()
		return nil, a.inner.DeletePattern(opCtx, pattern)
	})
	if err != nil {
		log.Debug().Err(err).Str("pattern", pattern).Msg("cache pattern delete dropped")
	}
	return nil
}

func (a *FailOpenAdapter) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}
