// internal/jobs/store/elasticsearch.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/jobs/query"
	"jobboard/internal/models"
)

// maxSearchResults matches the default index.max_result_window. Listings are
// not paginated.
const maxSearchResults = 10000

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":              {"type": "keyword"},
      "title":           {"type": "text"},
      "company":         {"type": "text"},
      "location":        {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "description":     {"type": "text"},
      "skills":          {"type": "keyword"},
      "employment_type": {"type": "keyword"},
      "posted_date":     {"type": "date"}
    }
  }
}`

type document struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	Skills         []string  `json:"skills"`
	EmploymentType string    `json:"employment_type"`
	PostedDate     time.Time `json:"posted_date"`
}

func toDocument(job models.Job) document {
	return document{
		ID:             job.ID.String(),
		Title:          job.Title,
		Company:        job.Company,
		Location:       job.Location,
		Description:    job.Description,
		Skills:         job.Skills,
		EmploymentType: string(job.EmploymentType),
		PostedDate:     job.PostedDate,
	}
}

func (d document) toJob() (models.Job, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Job{}, fmt.Errorf("document id %q: %w", d.ID, err)
	}
	skills := d.Skills
	if skills == nil {
		skills = []string{}
	}
	return models.Job{
		ID:             id,
		Title:          d.Title,
		Company:        d.Company,
		Location:       d.Location,
		Description:    d.Description,
		Skills:         skills,
		EmploymentType: models.EmploymentType(d.EmploymentType),
		PostedDate:     d.PostedDate,
	}, nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string   `json:"_id"`
			Source document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// ElasticsearchStore serves listing queries from a search index that the
// indexer keeps in sync with Postgres.
type ElasticsearchStore struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticsearchStore(client *elasticsearch.Client, index string, log logger.Logger) *ElasticsearchStore {
	return &ElasticsearchStore{
		client: client,
		index:  index,
		logger: logger.Component(log, "elasticsearch-store").WithFields(map[string]interface{}{"index": index}),
	}
}

func (s *ElasticsearchStore) Find(ctx context.Context, q query.StoreQuery) ([]models.Job, error) {
	body, err := json.Marshal(q.ToSearchBody(maxSearchResults))
	if err != nil {
		return nil, s.searchFailed(fmt.Errorf("encode query: %w", err))
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, s.searchFailed(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(s.index, ErrIndexNotFound)
	}
	if res.IsError() {
		return nil, s.searchFailed(errors.New(errorBody(res)))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, s.searchFailed(fmt.Errorf("decode response: %w", err))
	}

	jobs := make([]models.Job, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		job, err := hit.Source.toJob()
		if err != nil {
			s.logger.Warn("skipping malformed document", map[string]interface{}{
				"docId": hit.ID,
				"error": err,
			})
			continue
		}
		jobs = append(jobs, job)
	}
	// The index sort is authoritative but documents sharing a timestamp can
	// come back in any order between shards.
	query.SortByPostedDesc(jobs)

	s.logger.Debug("jobs searched", map[string]interface{}{
		"location":  q.Location,
		"skills":    q.Skills,
		"totalHits": sr.Hits.Total.Value,
	})
	return jobs, nil
}

func (s *ElasticsearchStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	req := esapi.GetRequest{
		Index:      s.index,
		DocumentID: id.String(),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, s.searchFailed(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if res.IsError() {
		return nil, s.searchFailed(errors.New(errorBody(res)))
	}

	var got struct {
		Found  bool     `json:"found"`
		Source document `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		return nil, s.searchFailed(fmt.Errorf("decode response: %w", err))
	}
	if !got.Found {
		return nil, ErrNotFound
	}

	job, err := got.Source.toJob()
	if err != nil {
		return nil, s.searchFailed(err)
	}
	return &job, nil
}

// EnsureIndex creates the index with its mapping when it is missing.
func (s *ElasticsearchStore) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	exists.Body.Close()

	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, errorBody(res))
	}
	s.logger.Info("index created", nil)
	return nil
}

// Index upserts jobs with a single bulk request, keyed by job id, and
// refreshes so the documents are searchable on return.
func (s *ElasticsearchStore) Index(ctx context.Context, jobs []models.Job) (int, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, job := range jobs {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": s.index, "_id": job.ID.String()},
		}
		if err := enc.Encode(meta); err != nil {
			return 0, err
		}
		if err := enc.Encode(toDocument(job)); err != nil {
			return 0, err
		}
	}

	res, err := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}.Do(ctx, s.client)
	if err != nil {
		return 0, fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("bulk index: %s", errorBody(res))
	}

	var br struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  *struct {
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return 0, fmt.Errorf("bulk index: decode response: %w", err)
	}

	indexed := 0
	for _, item := range br.Items {
		for _, result := range item {
			if result.Error != nil {
				s.logger.Warn("bulk item failed", map[string]interface{}{
					"status": result.Status,
					"reason": result.Error.Reason,
				})
				continue
			}
			indexed++
		}
	}
	if br.Errors {
		return indexed, fmt.Errorf("bulk index: %d of %d documents failed", len(jobs)-indexed, len(jobs))
	}
	return indexed, nil
}

// Prune deletes every document whose id is not in keep. An empty keep empties
// the index.
func (s *ElasticsearchStore) Prune(ctx context.Context, keep []uuid.UUID) (int, error) {
	var q map[string]interface{}
	if len(keep) == 0 {
		q = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		ids := make([]string, len(keep))
		for i, id := range keep {
			ids[i] = id.String()
		}
		q = map[string]interface{}{
			"bool": map[string]interface{}{
				"must_not": map[string]interface{}{
					"ids": map[string]interface{}{"values": ids},
				},
			},
		}
	}

	body, err := json.Marshal(map[string]interface{}{"query": q})
	if err != nil {
		return 0, fmt.Errorf("prune: encode query: %w", err)
	}

	refresh := true
	res, err := esapi.DeleteByQueryRequest{
		Index:   []string{s.index},
		Body:    bytes.NewReader(body),
		Refresh: &refresh,
	}.Do(ctx, s.client)
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("prune: %s", errorBody(res))
	}

	var dr struct {
		Deleted  int           `json:"deleted"`
		Failures []interface{} `json:"failures"`
	}
	if err := json.NewDecoder(res.Body).Decode(&dr); err != nil {
		return 0, fmt.Errorf("prune: decode response: %w", err)
	}
	if len(dr.Failures) > 0 {
		return dr.Deleted, fmt.Errorf("prune: %d delete failures", len(dr.Failures))
	}
	if dr.Deleted > 0 {
		s.logger.Info("stale documents removed", map[string]interface{}{"deleted": dr.Deleted})
	}
	return dr.Deleted, nil
}

func (s *ElasticsearchStore) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.Status())
	}
	return nil
}

// searchFailed wraps a read failure; errors.Is(err, ErrQueryFailed) holds.
func (s *ElasticsearchStore) searchFailed(err error) error {
	return apperrors.NewSearchQueryFailedError(s.index, fmt.Errorf("%w: %v", ErrQueryFailed, err))
}

func errorBody(res *esapi.Response) string {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	if len(data) == 0 {
		return res.Status()
	}
	return res.Status() + ": " + string(data)
}
