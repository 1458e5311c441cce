package cache

import (
	"context"

	"github.com/pharmafind/backend/internal/domain/providers"
)

// NoopAdapter satisfies CacheProvider without a backend. Every read is a
// miss, every write succeeds. Used when Redis is not configured so the
// search core always takes the storage path.
type NoopAdapter struct{}

func NewNoopAdapter() providers.CacheProvider {
	return NoopAdapter{}
}

func (NoopAdapter) Get(context.Context, string) ([]byte, error) {
	return nil, providers.ErrCacheMiss
}

func (NoopAdapter) Set(context.Context, string, []byte, int) error { return nil }

func (NoopAdapter) Delete(context.Context, string) error { return nil }

func (NoopAdapter) DeletePattern(context.Context, string) error { return nil }
