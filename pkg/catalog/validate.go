// pkg/catalog/validate.go
package catalog

import (
	"fmt"

	"jobboard/internal/common/validation"
)

// Issue is a schema violation in one catalog entry.
type Issue struct {
	Index int
	Title string
	validation.ValidationError
}

func (i Issue) String() string {
	return fmt.Sprintf("jobs[%d] (%q) %s: %s", i.Index, i.Title, i.Field, i.Message)
}

// Validate checks every entry against the job schema and returns all
// violations. An empty catalog is reported as an issue too.
func (c *Catalog) Validate() ([]Issue, error) {
	var issues []Issue
	if c.Version == "" {
		issues = append(issues, Issue{Index: -1, ValidationError: validation.ValidationError{
			Field: "version", Message: "version is required", Code: "required",
		}})
	}
	if len(c.Jobs) == 0 {
		issues = append(issues, Issue{Index: -1, ValidationError: validation.ValidationError{
			Field: "jobs", Message: "catalog has no jobs", Code: "min_items",
		}})
	}

	for i, e := range c.Jobs {
		res, err := validation.ValidateJob(e)
		if err != nil {
			return nil, fmt.Errorf("validate entry %d: %w", i, err)
		}
		for _, ve := range res.Errors {
			issues = append(issues, Issue{Index: i, Title: e.Title, ValidationError: ve})
		}
	}
	return issues, nil
}
