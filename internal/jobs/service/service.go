// internal/jobs/service/service.go
package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/common/metrics"
	"jobboard/internal/common/observability"
	"jobboard/internal/jobs/query"
	"jobboard/internal/jobs/store"
	"jobboard/internal/models"
)

const (
	MsgNoMatches  = "No jobs found matching your criteria."
	MsgNoJobs     = "No jobs posted yet."
	MsgListFailed = "Error fetching jobs from database."
	MsgGetFailed  = "Error fetching job details."
)

// ListResult is the body of a listing response. Message is set only when
// Jobs is empty.
type ListResult struct {
	Message string       `json:"message,omitempty"`
	Jobs    []models.Job `json:"jobs"`
}

type Service struct {
	store   store.Store
	backend models.StoreBackend
	obs     *observability.Observability
	timeout time.Duration
	logger  logger.Logger
}

// NewService wires the query service. obs may be nil; timeout 0 means the
// caller's context alone bounds store calls.
func NewService(st store.Store, backend models.StoreBackend, obs *observability.Observability, timeout time.Duration, log logger.Logger) *Service {
	return &Service{
		store:   st,
		backend: backend,
		obs:     obs,
		timeout: timeout,
		logger:  logger.Component(log, "job-service").WithFields(map[string]interface{}{"backend": backend.String()}),
	}
}

// List runs the listing query for the raw filter parameters.
func (s *Service) List(ctx context.Context, location, skills string) (*ListResult, error) {
	q := query.Build(location, skills)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	jobs, err := s.store.Find(ctx, q)
	metrics.JobQueries.WithLabelValues(s.backend.String(), strconv.FormatBool(q.Filtered())).Inc()

	if errors.Is(err, store.ErrIndexNotFound) {
		s.logger.Warn("search index missing, treating as empty", map[string]interface{}{"error": err})
		jobs, err = []models.Job{}, nil
	}
	if err != nil {
		s.obs.RecordQuery(ctx, "list", "error", time.Since(start))
		return nil, apperrors.NewQueryExecutionFailedError(MsgListFailed, err)
	}
	s.obs.RecordQuery(ctx, "list", "ok", time.Since(start))
	metrics.JobQueryResults.Observe(float64(len(jobs)))

	result := &ListResult{Jobs: jobs}
	if len(jobs) == 0 {
		result.Jobs = []models.Job{}
		if q.Filtered() {
			result.Message = MsgNoMatches
		} else {
			result.Message = MsgNoJobs
		}
	}

	s.logger.Debug("jobs listed", map[string]interface{}{
		"location": q.Location,
		"skills":   q.Skills,
		"count":    len(jobs),
	})
	return result, nil
}

// Get looks up a single job by its raw URL identifier.
func (s *Service) Get(ctx context.Context, rawID string) (*models.Job, error) {
	id, err := models.ParseJobID(rawID)
	if err != nil {
		return nil, apperrors.NewInvalidJobIDError(rawID)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	job, err := s.store.FindByID(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.obs.RecordQuery(ctx, "get", "not_found", time.Since(start))
		return nil, apperrors.NewJobNotFoundError(id.String())
	case err != nil:
		s.obs.RecordQuery(ctx, "get", "error", time.Since(start))
		return nil, apperrors.NewQueryExecutionFailedError(MsgGetFailed, err)
	}
	s.obs.RecordQuery(ctx, "get", "ok", time.Since(start))
	return job, nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
