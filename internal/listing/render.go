// internal/listing/render.go

// Package listing turns job records into display items and holds the state
// of the job listing and applied jobs pages.
package listing

import (
	"fmt"
	"strings"
	"time"

	"jobboard/internal/applied"
	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

const (
	summaryLength = 120

	invalidDate      = "Invalid date"
	noDescription    = "No description provided."
	noSkills         = "None specified"
	noEmploymentType = "N/A"
	applyLabel       = "Apply Now"
	appliedLabel     = "Applied"

	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerMonth  = 2592000
	secondsPerYear   = 31536000
)

// DisplayItem is one rendered job card.
type DisplayItem struct {
	Job            models.Job
	Summary        string
	Skills         string
	EmploymentType string
	Posted         string
	Applied        bool
}

// ButtonLabel is "Applied" for applied items and "Apply Now" otherwise.
func (d DisplayItem) ButtonLabel() string {
	if d.Applied {
		return appliedLabel
	}
	return applyLabel
}

// Render builds display items in input order, skipping records that lack
// an id, title, company or location.
func Render(jobs []models.Job, appliedIDs applied.IDSet, now time.Time, log logger.Logger) []DisplayItem {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	items := make([]DisplayItem, 0, len(jobs))
	for _, job := range jobs {
		if !job.Displayable() {
			log.Warn("skipping job with missing essential data", map[string]interface{}{
				"job_id":  job.ID.String(),
				"title":   job.Title,
				"company": job.Company,
			})
			continue
		}
		items = append(items, renderOne(job, appliedIDs.Contains(job.ID.String()), now))
	}
	return items
}

func renderOne(job models.Job, isApplied bool, now time.Time) DisplayItem {
	item := DisplayItem{
		Job:            job,
		Summary:        noDescription,
		Skills:         noSkills,
		EmploymentType: noEmploymentType,
		Posted:         TimeAgo(job.PostedDate, now),
		Applied:        isApplied,
	}
	if job.Description != "" {
		item.Summary = Truncate(job.Description)
	}
	if len(job.Skills) > 0 {
		item.Skills = strings.Join(job.Skills, ", ")
	}
	if job.EmploymentType != "" {
		item.EmploymentType = string(job.EmploymentType)
	}
	return item
}

// Truncate cuts descriptions longer than 120 characters and appends "...".
func Truncate(desc string) string {
	runes := []rune(desc)
	if len(runes) <= summaryLength {
		return desc
	}
	return string(runes[:summaryLength]) + "..."
}

// TimeAgo labels how long before now t was, in the largest whole unit.
// A zero t is "Invalid date"; a t in the future is "0 seconds ago".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return invalidDate
	}

	seconds := int64(now.Sub(t) / time.Second)
	units := []struct {
		size int64
		name string
	}{
		{secondsPerYear, "year"},
		{secondsPerMonth, "month"},
		{secondsPerDay, "day"},
		{secondsPerHour, "hour"},
		{secondsPerMinute, "minute"},
	}
	for _, u := range units {
		if n := seconds / u.size; n >= 1 {
			return plural(n, u.name)
		}
	}

	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d seconds ago", seconds)
}

// ParseTimeAgo is TimeAgo over an RFC 3339 string.
func ParseTimeAgo(raw string, now time.Time) string {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return invalidDate
	}
	return TimeAgo(t, now)
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
