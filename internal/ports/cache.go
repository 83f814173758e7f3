package ports

import (
	"context"
	"time"
)

// ResponseCache stores rendered read responses.
//
// Get returns domain.ErrNotFound on a miss or an expired entry and
// domain.ErrInternalCache when the backend fails. Put with ttl <= 0 stores
// nothing. Clear evicts every entry the cache owns regardless of TTL.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
