// Package store holds the job data stores behind the listing API.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"jobboard/internal/jobs/query"
	"jobboard/internal/models"
)

var (
	ErrNotFound      = errors.New("JOB_NOT_FOUND")
	ErrQueryFailed   = errors.New("QUERY_EXECUTION_FAILED")
	ErrIndexNotFound = errors.New("INDEX_NOT_FOUND")
)

// Store is the read side used by the query service. Find returns jobs ordered
// by posted date, newest first.
type Store interface {
	Find(ctx context.Context, q query.StoreQuery) ([]models.Job, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	Ping(ctx context.Context) error
}

// Writer is implemented by stores the seeder and indexer can populate.
type Writer interface {
	Insert(ctx context.Context, jobs []models.Job) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}
