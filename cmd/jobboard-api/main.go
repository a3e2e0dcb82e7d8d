// cmd/jobboard-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobboard/internal/api"
	"jobboard/internal/common/config"
	"jobboard/internal/common/database"
	"jobboard/internal/common/logger"
	"jobboard/internal/common/observability"
	"jobboard/internal/jobs/indexer"
	"jobboard/internal/jobs/service"
	"jobboard/internal/jobs/store"
	"jobboard/internal/models"
	"jobboard/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync() //nolint:errcheck
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting job board API...",
		zap.String("environment", cfg.App.Environment),
		zap.String("backend", cfg.Search.Backend),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown(context.Background()) //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		jobStore store.Store
		pgStore  *store.PostgresStore
		esStore  *store.ElasticsearchStore
		cache    indexer.Invalidator
	)

	needsPostgres := cfg.Search.Backend == config.BackendPostgres ||
		(cfg.Search.Backend == config.BackendElasticsearch && cfg.Search.ReindexSchedule != "")

	if needsPostgres {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		pgStore = store.NewPostgresStore(pg.DB, log)
		if err := pgStore.Migrate(ctx); err != nil {
			zapLog.Fatal("migration failed", zap.Error(err))
		}
		jobStore = pgStore
	}

	switch cfg.Search.Backend {
	case config.BackendElasticsearch:
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		esStore = store.NewElasticsearchStore(es.Client, cfg.Search.Index, log)
		jobStore = esStore

	case config.BackendMemory:
		jobs, err := catalog.Sample().ToJobs(time.Now())
		if err != nil {
			zapLog.Fatal("sample catalog invalid", zap.Error(err))
		}
		jobStore = store.NewMemoryStore(jobs...)
		zapLog.Info("Serving the built-in sample catalog from memory", zap.Int("jobs", len(jobs)))
	}

	if rdb := database.NewRedis(cfg.Database.Redis); rdb != nil {
		err = retryWithBackoff(func() error {
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")

		if cfg.Search.CacheTTL > 0 {
			cached := store.NewCachedStore(jobStore, rdb.Client, config.GetDuration(cfg.Search.CacheTTL), log)
			jobStore = cached
			cache = cached
		}
	}

	if esStore != nil && pgStore != nil {
		idx := indexer.New(pgStore, esStore, cache, log)
		if err := idx.Start(ctx, cfg.Search.ReindexSchedule); err != nil {
			zapLog.Fatal("indexer failed to start", zap.Error(err))
		}
		defer idx.Stop()
	}

	svc := service.NewService(jobStore, models.StoreBackend(cfg.Search.Backend), obs,
		config.GetDuration(cfg.Server.QueryTimeout), log)

	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(svc, api.Options{
		StaticDir:   cfg.Server.StaticDir,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("Server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
