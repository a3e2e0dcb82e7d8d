// internal/models/job.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmploymentType is the fixed set of contract kinds a posting can carry.
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "Full-time"
	EmploymentPartTime   EmploymentType = "Part-time"
	EmploymentContract   EmploymentType = "Contract"
	EmploymentInternship EmploymentType = "Internship"
)

var employmentTypes = []EmploymentType{
	EmploymentFullTime,
	EmploymentPartTime,
	EmploymentContract,
	EmploymentInternship,
}

// EmploymentTypes returns the allowed values in display order.
func EmploymentTypes() []EmploymentType {
	out := make([]EmploymentType, len(employmentTypes))
	copy(out, employmentTypes)
	return out
}

func (e EmploymentType) Valid() bool {
	for _, t := range employmentTypes {
		if e == t {
			return true
		}
	}
	return false
}

// ParseEmploymentType maps an empty value to Full-time and rejects anything
// outside the enumeration.
func ParseEmploymentType(raw string) (EmploymentType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return EmploymentFullTime, nil
	}
	et := EmploymentType(raw)
	if !et.Valid() {
		return "", fmt.Errorf("employment type %q is not one of %v", raw, employmentTypes)
	}
	return et, nil
}

// Job is a single posting. The JSON shape matches what the listing pages
// consume, including the "_id" key.
type Job struct {
	ID             uuid.UUID      `json:"_id"`
	Title          string         `json:"title"`
	Company        string         `json:"company"`
	Location       string         `json:"location"`
	Description    string         `json:"description"`
	Skills         []string       `json:"skills"`
	EmploymentType EmploymentType `json:"employmentType,omitempty"`
	PostedDate     time.Time      `json:"postedDate"`
}

// NewJob normalizes a record the way it is stored: text trimmed, skills
// lowercased with empty tokens dropped, employment type and posted date
// defaulted. The id is left for the store to assign.
func NewJob(in Job, now time.Time) (Job, error) {
	out := Job{
		ID:          in.ID,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		Description: in.Description,
		Skills:      NormalizeSkills(in.Skills),
		PostedDate:  in.PostedDate,
	}

	et, err := ParseEmploymentType(string(in.EmploymentType))
	if err != nil {
		return Job{}, err
	}
	out.EmploymentType = et

	if out.PostedDate.IsZero() {
		out.PostedDate = now
	}
	out.PostedDate = out.PostedDate.UTC()

	if err := out.Validate(); err != nil {
		return Job{}, err
	}
	return out, nil
}

// NormalizeSkills trims and lowercases each skill. Duplicates are kept.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the required text fields and the employment type.
func (j Job) Validate() error {
	var missing []string
	if strings.TrimSpace(j.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(j.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(j.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(j.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if j.EmploymentType != "" && !j.EmploymentType.Valid() {
		return fmt.Errorf("employment type %q is not one of %v", j.EmploymentType, employmentTypes)
	}
	return nil
}

// Displayable reports whether the record has what a listing row needs.
func (j Job) Displayable() bool {
	return j.ID != uuid.Nil &&
		strings.TrimSpace(j.Title) != "" &&
		strings.TrimSpace(j.Company) != "" &&
		strings.TrimSpace(j.Location) != ""
}

// HasSkills reports whether every token appears in the record's skills.
func (j Job) HasSkills(tokens []string) bool {
	for _, want := range tokens {
		found := false
		for _, have := range j.Skills {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ParseJobID parses the canonical UUID form used in URLs.
func ParseJobID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
