// pkg/catalog/catalog.go

// Package catalog reads and writes job catalog files, the input of the
// seeding tool.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"jobboard/internal/models"
)

const CurrentVersion = "1.0"

type Catalog struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated,omitempty"`
	Jobs        []Entry `json:"jobs"`
}

// Entry is one job as written in a catalog file. PostedDate is RFC 3339
// and optional.
type Entry struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills,omitempty"`
	EmploymentType string   `json:"employmentType,omitempty"`
	PostedDate     string   `json:"postedDate,omitempty"`
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return &c, nil
}

func Save(path string, c *Catalog) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ToJob normalizes the entry. An entry without a posted date gets fallback.
func (e Entry) ToJob(fallback time.Time) (models.Job, error) {
	et, err := models.ParseEmploymentType(e.EmploymentType)
	if err != nil {
		return models.Job{}, err
	}

	posted := fallback
	if e.PostedDate != "" {
		posted, err = time.Parse(time.RFC3339, e.PostedDate)
		if err != nil {
			return models.Job{}, fmt.Errorf("postedDate %q: %w", e.PostedDate, err)
		}
	}

	return models.NewJob(models.Job{
		Title:          e.Title,
		Company:        e.Company,
		Location:       e.Location,
		Description:    e.Description,
		Skills:         e.Skills,
		EmploymentType: et,
		PostedDate:     posted,
	}, fallback)
}

// ToJobs converts every entry. Undated entries are stamped now minus their
// position in minutes, so a listing shows them in catalog order.
func (c *Catalog) ToJobs(now time.Time) ([]models.Job, error) {
	jobs := make([]models.Job, 0, len(c.Jobs))
	for i, e := range c.Jobs {
		job, err := e.ToJob(now.Add(-time.Duration(i) * time.Minute))
		if err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Title, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
