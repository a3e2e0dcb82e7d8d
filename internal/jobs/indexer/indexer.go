// Package indexer copies jobs from Postgres into the search index on a cron
// schedule.
package indexer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

// Source lists every job of record.
type Source interface {
	All(ctx context.Context) ([]models.Job, error)
}

// Sink receives the indexed copy. Prune removes every document whose id is
// not in keep.
type Sink interface {
	EnsureIndex(ctx context.Context) error
	Index(ctx context.Context, jobs []models.Job) (int, error)
	Prune(ctx context.Context, keep []uuid.UUID) (int, error)
}

// Invalidator drops cached query results after a sync.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Indexer struct {
	source Source
	sink   Sink
	cache  Invalidator
	logger logger.Logger

	mu       sync.Mutex
	cron     *cron.Cron
	lastSync time.Time
	initial  sync.WaitGroup
}

// New builds an Indexer. cache may be nil.
func New(source Source, sink Sink, cache Invalidator, log logger.Logger) *Indexer {
	return &Indexer{
		source: source,
		sink:   sink,
		cache:  cache,
		logger: logger.Component(log, "indexer"),
	}
}

// Sync makes the index mirror the source: all jobs are written, then documents
// for jobs no longer in the source are removed. It returns how many were
// written.
func (i *Indexer) Sync(ctx context.Context) (int, error) {
	start := time.Now()

	if err := i.sink.EnsureIndex(ctx); err != nil {
		return 0, fmt.Errorf("ensure index: %w", err)
	}

	jobs, err := i.source.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load jobs: %w", err)
	}

	n, err := i.sink.Index(ctx, jobs)
	if err != nil {
		return n, fmt.Errorf("index jobs: %w", err)
	}

	keep := make([]uuid.UUID, len(jobs))
	for idx, job := range jobs {
		keep[idx] = job.ID
	}
	pruned, err := i.sink.Prune(ctx, keep)
	if err != nil {
		return n, fmt.Errorf("prune index: %w", err)
	}

	if i.cache != nil {
		if err := i.cache.Invalidate(ctx); err != nil {
			i.logger.Warn("cache invalidation failed", map[string]interface{}{"error": err})
		}
	}

	i.mu.Lock()
	i.lastSync = time.Now()
	i.mu.Unlock()

	i.logger.Info("index synced", map[string]interface{}{
		"jobs":       n,
		"pruned":     pruned,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return n, nil
}

// LastSync returns the time of the last successful sync, zero if none.
func (i *Indexer) LastSync() time.Time {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastSync
}

// Start schedules Sync with a cron spec such as "@every 10m" and runs one
// sync right away. Overlapping runs are skipped.
func (i *Indexer) Start(ctx context.Context, spec string) error {
	cl := cronLogger{i.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	job := cron.FuncJob(func() {
		if _, err := i.Sync(ctx); err != nil {
			i.logger.Error("scheduled sync failed", map[string]interface{}{"error": err})
		}
	})
	if _, err := c.AddJob(spec, job); err != nil {
		return fmt.Errorf("cron.AddJob %q: %w", spec, err)
	}

	i.mu.Lock()
	i.cron = c
	i.mu.Unlock()

	c.Start()
	i.logger.Info("reindex scheduled", map[string]interface{}{"schedule": spec})

	i.initial.Add(1)
	go func() {
		defer i.initial.Done()
		job.Run()
	}()
	return nil
}

// Stop halts the schedule and waits for a running sync to finish.
func (i *Indexer) Stop() {
	i.mu.Lock()
	c := i.cron
	i.cron = nil
	i.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	i.initial.Wait()
	i.logger.Info("reindex stopped", nil)
}

// cronLogger adapts the structured logger to cron.Logger.
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvToFields(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kvToFields(keysAndValues)
	fields["error"] = err
	c.l.Error("cron: "+msg, fields)
}

func kvToFields(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
