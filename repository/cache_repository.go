package repository

import (
	"context"
	"time"
)

// CacheRepository is a string key/value store with optional expiry.
// A zero ttl keeps the entry until it is overwritten.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
