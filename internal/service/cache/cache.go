package cache

import (
	"context"
	"time"
)

// BytesCache stores raw bytes with a TTL. It backs both the forecast
// response cache and the async job status store.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
