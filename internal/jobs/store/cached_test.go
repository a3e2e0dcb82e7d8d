// internal/jobs/store/cached_test.go

package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/jobs/query"
	"jobboard/internal/models"
)

type countingStore struct {
	Store
	finds    int
	findByID int
}

func (c *countingStore) Find(ctx context.Context, q query.StoreQuery) ([]models.Job, error) {
	c.finds++
	return c.Store.Find(ctx, q)
}

func (c *countingStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	c.findByID++
	return c.Store.FindByID(ctx, id)
}

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestCachedStore_Find_HitAfterMiss(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	inner := &countingStore{Store: NewMemoryStore(sampleJobs()...)}
	s := NewCachedStore(inner, rdb, time.Minute, testLogger(t))
	ctx := context.Background()

	first, err := s.Find(ctx, query.Build("bengaluru", ""))
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, mr.Exists(QueryCacheKey(query.Build("bengaluru", ""))))

	// Same match set, different case: served from the cache.
	second, err := s.Find(ctx, query.Build("BENGALURU", ""))
	require.NoError(t, err)
	assert.Equal(t, 1, inner.finds)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].PostedDate.Equal(second[0].PostedDate))

	ttl := mr.TTL(QueryCacheKey(query.Build("bengaluru", "")))
	assert.Equal(t, time.Minute, ttl)
}

func TestCachedStore_Find_ExpiredEntry(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	inner := &countingStore{Store: NewMemoryStore(sampleJobs()...)}
	s := NewCachedStore(inner, rdb, time.Second, testLogger(t))
	ctx := context.Background()

	_, err := s.Find(ctx, query.StoreQuery{})
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	_, err = s.Find(ctx, query.StoreQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.finds)
}

func TestCachedStore_FindByID(t *testing.T) {
	_, rdb := setupMiniredis(t)
	jobs := sampleJobs()
	inner := &countingStore{Store: NewMemoryStore(jobs...)}
	s := NewCachedStore(inner, rdb, time.Minute, testLogger(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := s.FindByID(ctx, jobs[0].ID)
		require.NoError(t, err)
		assert.Equal(t, jobs[0].Title, got.Title)
	}
	assert.Equal(t, 1, inner.findByID)

	missing := uuid.New()
	for i := 0; i < 2; i++ {
		_, err := s.FindByID(ctx, missing)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 3, inner.findByID, "not-found results are not cached")
}

func TestCachedStore_Find_RedisDown(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	jobs := sampleJobs()
	inner := &countingStore{Store: NewMemoryStore(jobs...)}
	s := NewCachedStore(inner, rdb, 30*time.Second, testLogger(t))

	q := query.Build("pune", "")
	expected, err := NewMemoryStore(jobs...).Find(context.Background(), q)
	require.NoError(t, err)
	data, err := json.Marshal(expected)
	require.NoError(t, err)

	mock.ExpectGet(QueryCacheKey(q)).SetErr(errors.New("dial tcp: connection refused"))
	mock.ExpectSet(QueryCacheKey(q), data, 30*time.Second).SetErr(errors.New("dial tcp: connection refused"))

	got, err := s.Find(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "QA Automation Engineer", got[0].Title)
	assert.Equal(t, 1, inner.finds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_Find_CorruptEntry(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	inner := &countingStore{Store: NewMemoryStore()}
	s := NewCachedStore(inner, rdb, time.Minute, testLogger(t))

	q := query.StoreQuery{}
	mock.ExpectGet(QueryCacheKey(q)).SetVal("{not json")
	mock.ExpectSet(QueryCacheKey(q), []byte("[]"), time.Minute).SetVal("OK")

	got, err := s.Find(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, inner.finds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_Find_InnerErrorNotCached(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	s := NewCachedStore(failingStore{}, rdb, time.Minute, testLogger(t))

	q := query.Build("pune", "")
	mock.ExpectGet(QueryCacheKey(q)).RedisNil()

	_, err := s.Find(context.Background(), q)
	assert.ErrorIs(t, err, ErrQueryFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_Invalidate(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	jobs := sampleJobs()
	s := NewCachedStore(NewMemoryStore(jobs...), rdb, time.Minute, testLogger(t))
	ctx := context.Background()

	_, _ = s.Find(ctx, query.StoreQuery{})
	_, _ = s.FindByID(ctx, jobs[0].ID)
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, s.Invalidate(ctx))
	assert.False(t, mr.Exists(QueryCacheKey(query.StoreQuery{})))
	assert.False(t, mr.Exists(IDCacheKey(jobs[0].ID)))
	assert.True(t, mr.Exists("unrelated"))
}

type failingStore struct{}

func (failingStore) Find(context.Context, query.StoreQuery) ([]models.Job, error) {
	return nil, ErrQueryFailed
}

func (failingStore) FindByID(context.Context, uuid.UUID) (*models.Job, error) {
	return nil, ErrQueryFailed
}

func (failingStore) Ping(context.Context) error { return ErrQueryFailed }
