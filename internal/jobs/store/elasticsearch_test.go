// internal/jobs/store/elasticsearch_test.go

package store

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/jobs/query"
	"jobboard/internal/models"
)

// fakeES is a minimal stand-in for the handful of endpoints the store calls.
type fakeES struct {
	mu          sync.Mutex
	docs        map[string]document
	indexExists bool
	lastSearch  map[string]interface{}
	searchCode  int
	bulkLines   int
	lastRefresh string
}

func newFakeES(jobs ...models.Job) *fakeES {
	f := &fakeES{docs: map[string]document{}, indexExists: true}
	for _, j := range jobs {
		f.docs[j.ID.String()] = toDocument(j)
	}
	return f
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodHead && path == "":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead && path == "jobs":
		if f.indexExists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && path == "jobs":
		f.indexExists = true
		_, _ = io.WriteString(w, `{"acknowledged":true,"index":"jobs"}`)
	case path == "jobs/_search":
		if f.searchCode != 0 {
			w.WriteHeader(f.searchCode)
			_, _ = io.WriteString(w, `{"error":{"type":"index_not_found_exception"}}`)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&f.lastSearch)
		f.writeHits(w)
	case strings.HasPrefix(path, "jobs/_doc/"):
		id := strings.TrimPrefix(path, "jobs/_doc/")
		doc, ok := f.docs[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"_index":"jobs","_id":"`+id+`","found":false}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"_id": id, "found": true, "_source": doc})
	case path == "_bulk":
		f.handleBulk(w, r)
	case r.Method == http.MethodPost && path == "jobs/_delete_by_query":
		f.handleDeleteByQuery(w, r)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

// writeHits returns every stored document in map order. Filtering is not
// emulated; the store is expected to re-sort by posted date.
func (f *fakeES) writeHits(w http.ResponseWriter) {
	hits := []map[string]interface{}{}
	for id, doc := range f.docs {
		hits = append(hits, map[string]interface{}{"_id": id, "_source": doc})
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": len(hits)},
			"hits":  hits,
		},
	})
}

func (f *fakeES) handleBulk(w http.ResponseWriter, r *http.Request) {
	items := []map[string]interface{}{}
	sc := bufio.NewScanner(r.Body)
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	for sc.Scan() {
		var meta struct {
			Index struct {
				ID string `json:"_id"`
			} `json:"index"`
		}
		_ = json.Unmarshal(sc.Bytes(), &meta)
		if !sc.Scan() {
			break
		}
		var doc document
		_ = json.Unmarshal(sc.Bytes(), &doc)
		f.docs[meta.Index.ID] = doc
		f.bulkLines += 2
		items = append(items, map[string]interface{}{"index": map[string]interface{}{"status": 201}})
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"errors": false, "items": items})
}

// handleDeleteByQuery understands match_all and bool.must_not.ids, the two
// shapes Prune sends.
func (f *fakeES) handleDeleteByQuery(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query struct {
			MatchAll *struct{} `json:"match_all"`
			Bool     struct {
				MustNot struct {
					IDs struct {
						Values []string `json:"values"`
					} `json:"ids"`
				} `json:"must_not"`
			} `json:"bool"`
		} `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.lastRefresh = r.URL.Query().Get("refresh")

	keep := map[string]bool{}
	if body.Query.MatchAll == nil {
		for _, id := range body.Query.Bool.MustNot.IDs.Values {
			keep[id] = true
		}
	}
	deleted := 0
	for id := range f.docs {
		if !keep[id] {
			delete(f.docs, id)
			deleted++
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"deleted": deleted, "failures": []interface{}{}})
}

func newESStore(t *testing.T, fake *fakeES) *ElasticsearchStore {
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewElasticsearchStore(client, "jobs", testLogger(t))
}

func TestElasticsearchStore_Find(t *testing.T) {
	jobs := sampleJobs()
	fake := newFakeES(jobs...)
	s := newESStore(t, fake)

	got, err := s.Find(context.Background(), query.Build("Bengaluru", "aws"))
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].PostedDate.After(got[i-1].PostedDate))
	}
	assert.Equal(t, "QA Automation Engineer", got[0].Title)

	q := fake.lastSearch["query"].(map[string]interface{})
	filter := q["bool"].(map[string]interface{})["filter"].([]interface{})
	assert.Len(t, filter, 2)
	assert.EqualValues(t, maxSearchResults, fake.lastSearch["size"])
}

func TestElasticsearchStore_Find_MissingIndex(t *testing.T) {
	fake := newFakeES()
	fake.searchCode = http.StatusNotFound
	s := newESStore(t, fake)

	_, err := s.Find(context.Background(), query.StoreQuery{})
	assert.ErrorIs(t, err, ErrIndexNotFound)

	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeIndexNotFound, se.Code)
	assert.Equal(t, "index: jobs", se.Details)
}

func TestElasticsearchStore_Find_ServerError(t *testing.T) {
	fake := newFakeES()
	fake.searchCode = http.StatusBadRequest
	s := newESStore(t, fake)

	_, err := s.Find(context.Background(), query.StoreQuery{})
	assert.ErrorIs(t, err, ErrQueryFailed)

	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, se.Code)
	assert.Contains(t, se.Details, "index: jobs")
	assert.Contains(t, se.Details, "400")
}

func TestElasticsearchStore_FindByID(t *testing.T) {
	jobs := sampleJobs()
	s := newESStore(t, newFakeES(jobs...))

	got, err := s.FindByID(context.Background(), jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, jobs[0].ID, got.ID)
	assert.Equal(t, jobs[0].Skills, got.Skills)
	assert.Equal(t, models.EmploymentFullTime, got.EmploymentType)

	_, err = s.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestElasticsearchStore_EnsureIndexAndBulk(t *testing.T) {
	fake := newFakeES()
	fake.indexExists = false
	s := newESStore(t, fake)
	ctx := context.Background()

	require.NoError(t, s.EnsureIndex(ctx))
	assert.True(t, fake.indexExists)

	n, err := s.Index(ctx, sampleJobs())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 6, fake.bulkLines)
	assert.Len(t, fake.docs, 3)

	n, err = s.Index(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestElasticsearchStore_Prune(t *testing.T) {
	jobs := sampleJobs()
	fake := newFakeES(jobs...)
	s := newESStore(t, fake)
	ctx := context.Background()

	n, err := s.Prune(ctx, []uuid.UUID{jobs[1].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "true", fake.lastRefresh)
	require.Len(t, fake.docs, 1)
	assert.Contains(t, fake.docs, jobs[1].ID.String())

	_, err = s.FindByID(ctx, jobs[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err = s.Prune(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, fake.docs)
}

func TestElasticsearchStore_Ping(t *testing.T) {
	s := newESStore(t, newFakeES())
	assert.NoError(t, s.Ping(context.Background()))
}
