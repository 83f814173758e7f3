package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelyams/car_catalog_service/internal/domain"
	"github.com/pelyams/car_catalog_service/internal/ports"
)

var _ ports.ResponseCache = (*MemoryCache)(nil)
var _ ports.ResponseCache = (*RedisCache)(nil)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryCache_GetPutClear(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	_, err := cache.Get(ctx, "products:missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, cache.Put(ctx, "products:a", []byte(`[{"id":1}]`), 30*time.Minute))
	require.NoError(t, cache.Put(ctx, "products:b", []byte(`[]`), 30*time.Minute))

	got, err := cache.Get(ctx, "products:a")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), got)

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
	for _, key := range []string{"products:a", "products:b"} {
		_, err := cache.Get(ctx, key)
		assert.True(t, errors.Is(err, domain.ErrNotFound), key)
	}
}

func TestMemoryCache_ZeroTTLStoresNothing(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	require.NoError(t, cache.Put(ctx, "k", []byte("v"), 0))
	require.NoError(t, cache.Put(ctx, "k2", []byte("v"), -time.Second))
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_ExpiresWithoutClear(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewMemoryCacheWithClock(clock.Now)

	require.NoError(t, cache.Put(ctx, "products:list", []byte("body"), 30*time.Minute))

	clock.Advance(29*time.Minute + 59*time.Second)
	_, err := cache.Get(ctx, "products:list")
	assert.NoError(t, err)

	clock.Advance(time.Second)
	_, err = cache.Get(ctx, "products:list")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_StoresCopy(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	value := []byte("original")
	require.NoError(t, cache.Put(ctx, "k", value, time.Minute))
	copy(value, "mutated!")

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			_ = cache.Put(ctx, fmt.Sprintf("k%d", i%5), []byte("value"), time.Minute)
		}(i)
		go func(i int) {
			defer wg.Done()
			got, err := cache.Get(ctx, fmt.Sprintf("k%d", i%5))
			if err == nil {
				assert.Equal(t, "value", string(got))
			}
		}(i)
		go func() {
			defer wg.Done()
			_ = cache.Clear(ctx)
		}()
	}
	wg.Wait()
}
