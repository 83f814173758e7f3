package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pelyams/car_catalog_service/internal/domain"
	"github.com/pelyams/car_catalog_service/testhelpers"
)

type ResponseCacheTestSuite struct {
	suite.Suite
	cacheContainer *testhelpers.RedisContainer
	cache          *RedisCache
	ctx            context.Context
}

func (suite *ResponseCacheTestSuite) SetupSuite() {
	suite.ctx = context.Background()
}

func (suite *ResponseCacheTestSuite) SetupTest() {
	t := suite.T()
	redisContainer, err := testhelpers.CreateRedisContainer(suite.ctx)
	if err != nil {
		t.Fatal("failed to create RedisContainer: ", err)
	}
	suite.cacheContainer = redisContainer

	redisClient := redis.NewClient(&redis.Options{
		Addr: redisContainer.ConnectionString,
		DB:   0,
	})
	suite.cache = NewRedisCache(redisClient)
}

func (suite *ResponseCacheTestSuite) TearDownTest() {
	if err := suite.cacheContainer.Terminate(suite.ctx); err != nil {
		suite.T().Fatal("error terminating redis container: ", err)
	}
}

func TestResponseCacheTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration tests in short mode")
	}
	suite.Run(t, new(ResponseCacheTestSuite))
}

func (suite *ResponseCacheTestSuite) TestPutAndGet() {
	t := suite.T()

	err := suite.cache.Put(suite.ctx, "products:abc", []byte(`[{"id":1}]`), 30*time.Minute)
	require.NoError(t, err)

	raw, err := suite.cache.client.Get(suite.ctx, "catalog:products:abc").Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), raw)

	ttl, err := suite.cache.client.TTL(suite.ctx, "catalog:products:abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 29*time.Minute)

	got, err := suite.cache.Get(suite.ctx, "products:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), got)

	_, err = suite.cache.Get(suite.ctx, "products:missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func (suite *ResponseCacheTestSuite) TestExpiry() {
	t := suite.T()

	require.NoError(t, suite.cache.Put(suite.ctx, "products:short", []byte("x"), time.Second))
	assert.Eventually(t, func() bool {
		_, err := suite.cache.Get(suite.ctx, "products:short")
		return errors.Is(err, domain.ErrNotFound)
	}, 5*time.Second, 100*time.Millisecond)
}

func (suite *ResponseCacheTestSuite) TestClearOnlyTouchesCatalogKeys() {
	t := suite.T()

	for i := 0; i < 1200; i++ {
		require.NoError(t, suite.cache.Put(suite.ctx, fmt.Sprintf("products:%d", i), []byte("x"), time.Hour))
	}
	require.NoError(t, suite.cache.client.Set(suite.ctx, "session:42", "keep me", 0).Err())

	require.NoError(t, suite.cache.Clear(suite.ctx))

	keys, err := suite.cache.client.Keys(suite.ctx, "catalog:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)

	other, err := suite.cache.client.Get(suite.ctx, "session:42").Result()
	require.NoError(t, err)
	assert.Equal(t, "keep me", other)
}

func (suite *ResponseCacheTestSuite) TestDisconnected() {
	t := suite.T()

	err := suite.cacheContainer.Stop(suite.ctx, nil)
	if err != nil {
		t.Fatal("failed to stop redis container: ", err)
	}

	_, err = suite.cache.Get(suite.ctx, "products:abc")
	assert.True(t, errors.Is(err, domain.ErrInternalCache))

	err = suite.cache.Put(suite.ctx, "products:abc", []byte("x"), time.Minute)
	assert.True(t, errors.Is(err, domain.ErrInternalCache))

	err = suite.cache.Clear(suite.ctx)
	assert.True(t, errors.Is(err, domain.ErrInternalCache))

	err = suite.cache.Ping(suite.ctx)
	assert.True(t, errors.Is(err, domain.ErrInternalCache))
}
