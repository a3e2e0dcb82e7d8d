// Package query turns the listing filters into store queries.
//
// A location filter is a case-insensitive substring match. A skills filter is
// a comma separated list of exact tokens that a job must all carry. Results
// are always ordered by posted date, newest first.
package query

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"jobboard/internal/models"
)

// StoreQuery is the backend neutral form of a listing filter. A zero value
// matches every job.
type StoreQuery struct {
	Location string   `json:"location,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// Build trims the location and parses skills. Blank input yields no
// constraint for that field.
func Build(location, skills string) StoreQuery {
	return StoreQuery{
		Location: strings.TrimSpace(location),
		Skills:   ParseSkills(skills),
	}
}

// ParseSkills splits on commas, trims and lowercases each token and drops
// empty tokens. It returns nil when nothing is left.
func ParseSkills(raw string) []string {
	var out []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

func (q StoreQuery) IsEmpty() bool {
	return q.Location == "" && len(q.Skills) == 0
}

// Filtered reports whether the caller supplied any constraint. It decides
// which "no results" message is shown.
func (q StoreQuery) Filtered() bool {
	return !q.IsEmpty()
}

// Matches is the reference predicate every backend must agree with.
func (q StoreQuery) Matches(job models.Job) bool {
	if q.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(q.Location)) {
		return false
	}
	return job.HasSkills(q.Skills)
}

// Key is a canonical string for the query. Queries that match the same set of
// jobs because they differ only in location case or skill order share a key.
// The parts are JSON encoded so no input can collide with another's key.
func (q StoreQuery) Key() string {
	skills := make([]string, len(q.Skills))
	copy(skills, q.Skills)
	sort.Strings(skills)
	data, _ := json.Marshal([]interface{}{strings.ToLower(q.Location), skills})
	return string(data)
}

// ToSQL returns the WHERE clause (empty when unfiltered) and its arguments.
// strpos is used instead of ILIKE so that % and _ in the input are literal.
func (q StoreQuery) ToSQL() (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if q.Location != "" {
		args = append(args, q.Location)
		conds = append(conds, fmt.Sprintf("strpos(lower(location), lower($%d)) > 0", len(args)))
	}
	if len(q.Skills) > 0 {
		args = append(args, pq.Array(q.Skills))
		conds = append(conds, fmt.Sprintf("skills @> $%d::text[]", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ToSearchBody builds the Elasticsearch request body.
func (q StoreQuery) ToSearchBody(size int) map[string]interface{} {
	filter := []interface{}{}

	if q.Location != "" {
		filter = append(filter, map[string]interface{}{
			"wildcard": map[string]interface{}{
				"location.keyword": map[string]interface{}{
					"value":            "*" + escapeWildcard(q.Location) + "*",
					"case_insensitive": true,
				},
			},
		})
	}
	for _, skill := range q.Skills {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"skills": skill},
		})
	}

	var clause map[string]interface{}
	if len(filter) == 0 {
		clause = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		clause = map[string]interface{}{
			"bool": map[string]interface{}{"filter": filter},
		}
	}

	return map[string]interface{}{
		"query": clause,
		"size":  size,
		"sort": []interface{}{
			map[string]interface{}{"posted_date": map[string]interface{}{"order": "desc"}},
		},
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

// SortByPostedDesc orders jobs newest first. Equal dates keep their order.
func SortByPostedDesc(jobs []models.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].PostedDate.After(jobs[j].PostedDate)
	})
}

// Apply filters and sorts jobs in memory using Matches.
func (q StoreQuery) Apply(jobs []models.Job) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if q.Matches(job) {
			out = append(out, job)
		}
	}
	SortByPostedDesc(out)
	return out
}
