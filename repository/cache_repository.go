package repository

import (
	"context"
	"time"
)

// CacheRepository stores short-lived string values. A zero ttl keeps the
// value until it is deleted.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
