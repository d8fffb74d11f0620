package enrichment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/engine/internal/domain/author"
	"github.com/scholarfinder/engine/pkg/errors"
	"github.com/scholarfinder/engine/pkg/types/common"
)

type fakeStore struct {
	records map[common.ID]*author.Author
	calls   int
}

func (s *fakeStore) FindByID(_ context.Context, id common.ID) (*author.Author, error) {
	s.calls++
	if a, ok := s.records[id]; ok {
		return a, nil
	}
	return nil, errors.New(errors.CodeAuthorNotFound, "author not found")
}

// memCache is a map-backed stand-in for the redis cache with the same
// read-through contract.
type memCache struct {
	entries map[string][]byte
	deleted []string
	fail    bool
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) GetOrSet(ctx context.Context, key string, dest interface{}, _ time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	if c.fail {
		return errors.New(errors.ErrCodeCacheError, "cache unavailable")
	}
	if data, ok := c.entries[key]; ok {
		return json.Unmarshal(data, dest)
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return json.Unmarshal(data, dest)
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type countingMetrics struct {
	hits, misses int
}

func (m *countingMetrics) IncCacheHit()  { m.hits++ }
func (m *countingMetrics) IncCacheMiss() { m.misses++ }

func storeWith(a *author.Author) *fakeStore {
	return &fakeStore{records: map[common.ID]*author.Author{a.ID: a}}
}

func TestGetAuthorProfileLoadsFromStoreOnMiss(t *testing.T) {
	rec := &author.Author{ID: "a1", Name: "Grace Hopper", PublicationCount: 42}
	store := storeWith(rec)
	metrics := &countingMetrics{}
	svc := NewService(store, newMemCache(), time.Hour, nil, metrics)

	got, err := svc.GetAuthorProfile(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", got.Name)
	assert.Equal(t, 42, got.PublicationCount)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 0, metrics.hits)
}

func TestGetAuthorProfileServesSecondReadFromCache(t *testing.T) {
	rec := &author.Author{ID: "a1", Name: "Grace Hopper"}
	store := storeWith(rec)
	metrics := &countingMetrics{}
	svc := NewService(store, newMemCache(), time.Hour, nil, metrics)

	_, err := svc.GetAuthorProfile(context.Background(), "a1")
	require.NoError(t, err)
	got, err := svc.GetAuthorProfile(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, "Grace Hopper", got.Name)
	assert.Equal(t, 1, store.calls, "second read must not hit the store")
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestGetAuthorProfileUnknownAuthor(t *testing.T) {
	svc := NewService(&fakeStore{records: map[common.ID]*author.Author{}}, newMemCache(), time.Hour, nil, nil)

	_, err := svc.GetAuthorProfile(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeAuthorNotFound))
}

func TestGetAuthorProfileEmptyID(t *testing.T) {
	svc := NewService(&fakeStore{}, newMemCache(), time.Hour, nil, nil)

	_, err := svc.GetAuthorProfile(context.Background(), "")
	require.Error(t, err)
}

func TestGetAuthorProfileCacheFailureFallsBackToStore(t *testing.T) {
	rec := &author.Author{ID: "a1", Name: "Grace Hopper"}
	store := storeWith(rec)
	cache := newMemCache()
	cache.fail = true
	svc := NewService(store, cache, time.Hour, nil, nil)

	got, err := svc.GetAuthorProfile(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", got.Name)
	assert.Equal(t, 1, store.calls)
}

func TestGetAuthorProfileNilCacheGoesStraightToStore(t *testing.T) {
	rec := &author.Author{ID: "a1", Name: "Grace Hopper"}
	store := storeWith(rec)
	svc := NewService(store, nil, time.Hour, nil, nil)

	got, err := svc.GetAuthorProfile(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestInvalidateDropsCachedRecord(t *testing.T) {
	rec := &author.Author{ID: "a1", Name: "Grace Hopper"}
	store := storeWith(rec)
	cache := newMemCache()
	svc := NewService(store, cache, time.Hour, nil, nil)

	_, err := svc.GetAuthorProfile(context.Background(), "a1")
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background(), "a1"))
	assert.Contains(t, cache.deleted, "author:a1")

	_, err = svc.GetAuthorProfile(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls, "invalidation must force a reload")
}
