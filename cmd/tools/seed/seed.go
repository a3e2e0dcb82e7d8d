// cmd/tools/seed/seed.go
package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"jobboard/internal/common/logger"
	"jobboard/internal/jobs/store"
	"jobboard/pkg/catalog"
)

type seeder struct {
	writer store.Writer
	logger logger.Logger
	out    io.Writer
}

// Seed replaces the stored jobs with the catalog. With keep set it only
// seeds an empty table. It returns the number of jobs inserted.
func (s *seeder) Seed(ctx context.Context, cat *catalog.Catalog, keep bool, now time.Time) (int, error) {
	jobs, err := cat.ToJobs(now)
	if err != nil {
		return 0, err
	}

	if keep {
		count, err := s.writer.Count(ctx)
		if err != nil {
			return 0, err
		}
		if count > 0 {
			fmt.Fprintf(s.out, "Database already contains %d jobs. Seeding skipped.\n", count)
			return 0, nil
		}
		fmt.Fprintln(s.out, "No existing jobs found. Seeding database...")
	} else {
		deleted, err := s.writer.DeleteAll(ctx)
		if err != nil {
			return 0, err
		}
		s.logger.Info("existing jobs cleared", map[string]interface{}{"deleted": deleted})
		fmt.Fprintln(s.out, "Existing jobs cleared.")
	}

	n, err := s.writer.Insert(ctx, jobs)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(s.out, "%d sample jobs seeded successfully!\n", n)
	return n, nil
}
