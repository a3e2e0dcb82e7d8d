// internal/jobs/store/cached.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/common/metrics"
	"jobboard/internal/jobs/query"
	"jobboard/internal/models"
)

const (
	queryKeyPrefix = "jobs:query:"
	idKeyPrefix    = "jobs:id:"
)

// CachedStore answers repeated queries from Redis. Any cache failure is
// logged and the inner store is used, so Redis is never required for a
// response.
type CachedStore struct {
	inner  Store
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: logger.Component(log, "job-cache"),
	}
}

func QueryCacheKey(q query.StoreQuery) string {
	return queryKeyPrefix + q.Key()
}

func IDCacheKey(id uuid.UUID) string {
	return idKeyPrefix + id.String()
}

func (s *CachedStore) Find(ctx context.Context, q query.StoreQuery) ([]models.Job, error) {
	key := QueryCacheKey(q)

	var jobs []models.Job
	if s.lookup(ctx, key, &jobs) {
		return jobs, nil
	}

	jobs, err := s.inner.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, jobs)
	return jobs, nil
}

func (s *CachedStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	key := IDCacheKey(id)

	var job models.Job
	if s.lookup(ctx, key, &job) {
		return &job, nil
	}

	found, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, found)
	return found, nil
}

func (s *CachedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Invalidate drops every cached listing and job. The indexer calls it after
// a sync.
func (s *CachedStore) Invalidate(ctx context.Context) error {
	var keys []string
	for _, pattern := range []string{queryKeyPrefix + "*", idKeyPrefix + "*"} {
		iter := s.redis.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return apperrors.NewCacheUnavailableError(err)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return apperrors.NewCacheUnavailableError(err)
	}
	return nil
}

func (s *CachedStore) lookup(ctx context.Context, key string, dst interface{}) bool {
	val, err := s.redis.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.JobCacheLookups.WithLabelValues("miss").Inc()
		return false
	case err != nil:
		metrics.JobCacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("cache read failed", map[string]interface{}{
			"key":   key,
			"error": apperrors.NewCacheUnavailableError(err),
		})
		return false
	}

	if err := json.Unmarshal([]byte(val), dst); err != nil {
		metrics.JobCacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("discarding undecodable cache entry", map[string]interface{}{
			"key":   key,
			"error": err,
		})
		return false
	}
	metrics.JobCacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (s *CachedStore) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": apperrors.NewCacheUnavailableError(err),
		})
	}
}
