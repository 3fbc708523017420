package cache

import (
	"context"
	"time"
)

// DefaultTTL bounds staleness of derived values after a concurrent write.
const DefaultTTL = 10 * time.Minute

// Store is the derived-value cache capability handed to services. Values are
// JSON-encoded so the memory and redis backends are interchangeable.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}

// Fetch is the read-through decorator used on every cached read path: check
// the store, on miss run the loader and fill. A store error counts as a miss
// so a degraded cache never breaks reads.
func Fetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	var cached T
	if ok, err := store.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}

	value, err := loader(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	_ = store.Set(ctx, key, value, ttl)
	return value, nil
}
