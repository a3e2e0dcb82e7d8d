// cmd/tools/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"jobboard/internal/common/config"
	"jobboard/internal/common/database"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/jobs/indexer"
	"jobboard/internal/jobs/store"
	"jobboard/pkg/catalog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	loadCmd := flag.NewFlagSet("load", flag.ContinueOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	for _, fs := range []*flag.FlagSet{loadCmd, validateCmd, exportCmd} {
		fs.SetOutput(out)
	}

	// Load command flags
	loadPath := loadCmd.String("path", "", "Catalog file to load (built-in sample catalog when empty)")
	keep := loadCmd.Bool("keep", false, "Keep existing jobs; only seed an empty table")

	// Validate command flags
	validatePath := validateCmd.String("path", "", "Catalog file to validate (built-in sample catalog when empty)")

	// Export command flags
	exportPath := exportCmd.String("path", "configs/jobs-catalog.json", "Where to write the sample catalog")

	if len(args) < 1 {
		help(out)
		return 1
	}

	switch args[0] {
	case "load":
		if err := loadCmd.Parse(args[1:]); err != nil {
			return 2
		}
		cat, err := readCatalog(*loadPath)
		if err != nil {
			fmt.Fprintf(out, "Error reading catalog: %v\n", err)
			return 1
		}
		if err := load(cat, *keep, out); err != nil {
			fmt.Fprintf(out, "Seeding failed: %v\n", err)
			return 1
		}

	case "validate":
		if err := validateCmd.Parse(args[1:]); err != nil {
			return 2
		}
		cat, err := readCatalog(*validatePath)
		if err != nil {
			fmt.Fprintf(out, "Error reading catalog: %v\n", err)
			return 1
		}
		if err := validateCatalog(cat, out); err != nil {
			fmt.Fprintf(out, "Catalog validation failed: %v\n", err)
			return 1
		}
		fmt.Fprintln(out, "Catalog validation passed.")

	case "export":
		if err := exportCmd.Parse(args[1:]); err != nil {
			return 2
		}
		cat := catalog.Sample()
		cat.LastUpdated = time.Now().UTC().Format(time.RFC3339)
		if err := catalog.Save(*exportPath, cat); err != nil {
			fmt.Fprintf(out, "Error writing catalog: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "Wrote %d jobs to %s\n", len(cat.Jobs), *exportPath)

	case "help":
		help(out)

	default:
		help(out)
		return 1
	}
	return 0
}

func readCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Sample(), nil
	}
	return catalog.Load(path)
}

func validateCatalog(cat *catalog.Catalog, out io.Writer) error {
	issues, err := cat.Validate()
	if err != nil {
		return err
	}
	for _, issue := range issues {
		fmt.Fprintln(out, "  "+issue.String())
	}
	if len(issues) > 0 {
		return apperrors.NewJobValidationFailedError(fmt.Sprintf("%d issue(s) in %d job(s)", len(issues), len(cat.Jobs)))
	}
	return nil
}

// load writes the catalog into Postgres, then refreshes the search index
// and drops cached listings when those are configured.
func load(cat *catalog.Catalog, keep bool, out io.Writer) error {
	if err := validateCatalog(cat, out); err != nil {
		return err
	}

	zapLog := logger.New("info", "console")
	defer zapLog.Sync() //nolint:errcheck
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := validatePostgresBackend(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("postgres unreachable: %w", err)
	}

	pgStore := store.NewPostgresStore(pg.DB, log)
	if err := pgStore.Migrate(ctx); err != nil {
		return err
	}

	s := &seeder{writer: pgStore, logger: log, out: out}
	n, err := s.Seed(ctx, cat, keep, time.Now())
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	var cache indexer.Invalidator
	if rdb := database.NewRedis(cfg.Database.Redis); rdb != nil {
		defer rdb.Close()
		cache = store.NewCachedStore(pgStore, rdb.Client, config.GetDuration(cfg.Search.CacheTTL), log)
	}

	if cfg.Search.Backend == config.BackendElasticsearch {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		esStore := store.NewElasticsearchStore(es.Client, cfg.Search.Index, log)
		indexed, err := indexer.New(pgStore, esStore, cache, log).Sync(ctx)
		if err != nil {
			return fmt.Errorf("index jobs: %w", err)
		}
		fmt.Fprintf(out, "%d jobs indexed into %q.\n", indexed, cfg.Search.Index)
		return nil
	}

	if cache != nil {
		if err := cache.Invalidate(ctx); err != nil {
			log.Warn("failed to invalidate job cache", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func validatePostgresBackend(cfg *config.Config) error {
	if cfg.Search.Backend == config.BackendMemory {
		return fmt.Errorf("search.backend is memory; seeding needs postgres")
	}
	if cfg.Database.Postgres.URL == "" && cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres is not configured")
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  seed load [-path <catalog.json>] [-keep]")
	fmt.Fprintln(out, "  seed validate [-path <catalog.json>]")
	fmt.Fprintln(out, "  seed export [-path <catalog.json>]")
}
