// internal/jobs/store/memory.go
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"jobboard/internal/jobs/query"
	"jobboard/internal/models"
)

// MemoryStore keeps jobs in process. It backs the "memory" search backend
// and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs []models.Job
}

func NewMemoryStore(jobs ...models.Job) *MemoryStore {
	s := &MemoryStore{}
	_, _ = s.Insert(context.Background(), jobs)
	return s
}

func (s *MemoryStore) Find(_ context.Context, q query.StoreQuery) ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return q.Apply(s.jobs), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.ID == id {
			j := job
			return &j, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Insert(_ context.Context, jobs []models.Job) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range jobs {
		if job.ID == uuid.Nil {
			job.ID = uuid.New()
		}
		s.jobs = append(s.jobs, job)
	}
	return len(jobs), nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.jobs))
	s.jobs = nil
	return n, nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.jobs)), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
