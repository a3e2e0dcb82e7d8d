// internal/jobs/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"jobboard/internal/common/logger"
	"jobboard/internal/jobs/query"
	"jobboard/internal/models"
)

const jobColumns = `id, title, company, location, description, skills, employment_type, posted_date`

const schemaSQL = `
CREATE TABLE IF NOT EXISTS jobs (
	id              UUID PRIMARY KEY,
	title           TEXT NOT NULL,
	company         TEXT NOT NULL,
	location        TEXT NOT NULL,
	description     TEXT NOT NULL,
	skills          TEXT[] NOT NULL DEFAULT '{}',
	employment_type TEXT NOT NULL DEFAULT 'Full-time'
		CHECK (employment_type IN ('Full-time', 'Part-time', 'Contract', 'Internship')),
	posted_date     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_jobs_location ON jobs (lower(location));
CREATE INDEX IF NOT EXISTS idx_jobs_skills ON jobs USING GIN (skills);
CREATE INDEX IF NOT EXISTS idx_jobs_posted_date ON jobs (posted_date DESC);
`

// PostgresStore keeps jobs in a single table. Skills are a text[] so the
// all-of filter is a containment check.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger.Component(log, "postgres-store"),
	}
}

// Migrate creates the jobs table and its indexes if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate jobs table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, q query.StoreQuery) ([]models.Job, error) {
	where, args := q.ToSQL()
	stmt := "SELECT " + jobColumns + " FROM jobs"
	if where != "" {
		stmt += " " + where
	}
	stmt += " ORDER BY posted_date DESC"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryFailed, err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	s.logger.Debug("jobs queried", map[string]interface{}{
		"location": q.Location,
		"skills":   q.Skills,
		"count":    len(jobs),
	})
	return jobs, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return &job, nil
}

// All returns every job, newest first.
func (s *PostgresStore) All(ctx context.Context) ([]models.Job, error) {
	return s.Find(ctx, query.StoreQuery{})
}

// Insert writes jobs in one transaction. Jobs without an id get a new one.
func (s *PostgresStore) Insert(ctx context.Context, jobs []models.Job) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const stmt = `INSERT INTO jobs (` + jobColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range jobs {
		job := jobs[i]
		if job.ID == uuid.Nil {
			job.ID = uuid.New()
		}
		if job.EmploymentType == "" {
			job.EmploymentType = models.EmploymentFullTime
		}
		_, err := tx.ExecContext(ctx, stmt,
			job.ID, job.Title, job.Company, job.Location, job.Description,
			pq.Array(job.Skills), string(job.EmploymentType), job.PostedDate,
		)
		if err != nil {
			return 0, fmt.Errorf("insert job %q: %w", job.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return len(jobs), nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs")
	if err != nil {
		return 0, fmt.Errorf("delete jobs: %w", err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (models.Job, error) {
	var (
		job    models.Job
		skills []string
		et     string
	)
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Description,
		pq.Array(&skills), &et, &job.PostedDate,
	)
	if err != nil {
		return models.Job{}, err
	}
	if skills == nil {
		skills = []string{}
	}
	job.Skills = skills
	job.EmploymentType = models.EmploymentType(et)
	return job, nil
}
