package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/engine/pkg/errors"
)

type cachedAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newMockCache(t *testing.T) (Cache, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	client := NewClientWithRedis(db, nil)
	// Deterministic TTL so expectations can match exactly.
	cache := NewCache(client, nil, WithPrefix("test:"), WithDefaultTTL(time.Minute)).(*redisCache)
	cache.jitter = func(ttl time.Duration) time.Duration { return ttl }
	return cache, mock
}

func TestCacheGetHit(t *testing.T) {
	cache, mock := newMockCache(t)

	want := cachedAuthor{ID: "a-1", Name: "Jane Smith"}
	payload, _ := json.Marshal(want)
	mock.ExpectGet("test:author:a-1").SetVal(string(payload))

	var got cachedAuthor
	require.NoError(t, cache.Get(context.Background(), "author:a-1", &got))
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheGetMiss(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectGet("test:author:absent").RedisNil()

	var got cachedAuthor
	err := cache.Get(context.Background(), "author:absent", &got)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestCacheSet(t *testing.T) {
	cache, mock := newMockCache(t)

	value := cachedAuthor{ID: "a-1", Name: "Jane Smith"}
	payload, _ := json.Marshal(value)
	mock.ExpectSet("test:author:a-1", payload, time.Minute).SetVal("OK")

	require.NoError(t, cache.Set(context.Background(), "author:a-1", value, time.Minute))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDelete(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectDel("test:a", "test:b").SetVal(2)

	require.NoError(t, cache.Delete(context.Background(), "a", "b"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSetLoadsOnMiss(t *testing.T) {
	cache, mock := newMockCache(t)

	value := cachedAuthor{ID: "a-1", Name: "Jane Smith"}
	payload, _ := json.Marshal(value)
	mock.ExpectGet("test:author:a-1").RedisNil()
	mock.ExpectSet("test:author:a-1", payload, time.Minute).SetVal("OK")

	calls := 0
	var got cachedAuthor
	err := cache.GetOrSet(context.Background(), "author:a-1", &got, time.Minute,
		func(context.Context) (interface{}, error) {
			calls++
			return value, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, value, got)
}

func TestGetOrSetSkipsLoaderOnHit(t *testing.T) {
	cache, mock := newMockCache(t)

	value := cachedAuthor{ID: "a-1", Name: "Jane Smith"}
	payload, _ := json.Marshal(value)
	mock.ExpectGet("test:author:a-1").SetVal(string(payload))

	var got cachedAuthor
	err := cache.GetOrSet(context.Background(), "author:a-1", &got, time.Minute,
		func(context.Context) (interface{}, error) {
			t.Fatal("loader must not run on a cache hit")
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, value, got)
}
