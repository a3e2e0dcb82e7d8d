// internal/listing/page_test.go

package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/applied"
	"jobboard/internal/client"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

type stubLister struct {
	res   *client.ListResponse
	err   error
	calls []string
}

func (s *stubLister) ListJobs(ctx context.Context, location, skills string) (*client.ListResponse, error) {
	s.calls = append(s.calls, location+"|"+skills)
	return s.res, s.err
}

func newPage(t *testing.T, lister client.Lister) (*Page, *applied.Store) {
	t.Helper()
	log := logger.NewTestLogger(t)
	store := applied.NewStore(applied.NewMemoryStorage(), log)
	p := NewPage(client.NewFetcher(lister), store, log)
	p.now = func() time.Time { return now }
	return p, store
}

func TestPage_LoadRendersJobs(t *testing.T) {
	a, b := testJob("A"), testJob("B")
	lister := &stubLister{res: &client.ListResponse{Jobs: []models.Job{a, b}}}
	p, store := newPage(t, lister)
	store.Add(b.ID.String())

	require.NoError(t, p.Load(context.Background(), "  pune ", " go "))

	assert.Equal(t, []string{"pune|go"}, lister.calls)
	assert.False(t, p.Loading())
	assert.False(t, p.Status().Visible())

	items := p.Items()
	require.Len(t, items, 2)
	assert.False(t, items[0].Applied)
	assert.True(t, items[1].Applied)
}

func TestPage_EmptyResults(t *testing.T) {
	lister := &stubLister{res: &client.ListResponse{Message: "No jobs found matching your criteria.", Jobs: []models.Job{}}}
	p, _ := newPage(t, lister)

	require.NoError(t, p.Load(context.Background(), "Mumbai", ""))
	assert.Empty(t, p.Items())
	assert.Equal(t, Status{Message: "No jobs found matching your criteria.", Kind: StatusInfo}, p.Status())

	lister.res = &client.ListResponse{NoData: true}
	require.NoError(t, p.Load(context.Background(), "", ""))
	assert.Equal(t, "No jobs posted yet or found matching criteria.", p.Status().Message)
}

func TestPage_FetchError(t *testing.T) {
	lister := &stubLister{err: apperrors.NewFetchFailedError("Error fetching jobs from database.", 500, nil)}
	p, _ := newPage(t, lister)

	err := p.Load(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, Status{Message: "Could not load jobs: Error fetching jobs from database.", Kind: StatusDanger}, p.Status())
	assert.Empty(t, p.Items())
	assert.False(t, p.Loading())
}

func TestPage_PlainErrorMessage(t *testing.T) {
	p, _ := newPage(t, &stubLister{err: errors.New("connection refused")})
	require.Error(t, p.Load(context.Background(), "", ""))
	assert.Equal(t, "Could not load jobs: connection refused", p.Status().Message)
}

// gatedLister blocks each call until its location is released or the call
// is canceled.
type gatedLister struct {
	started chan string
	release map[string]chan struct{}
	jobs    map[string]models.Job
}

func newGatedLister(locations ...string) *gatedLister {
	g := &gatedLister{
		started: make(chan string, len(locations)),
		release: map[string]chan struct{}{},
		jobs:    map[string]models.Job{},
	}
	for _, loc := range locations {
		g.release[loc] = make(chan struct{})
		g.jobs[loc] = testJob(loc)
	}
	return g
}

func (g *gatedLister) ListJobs(ctx context.Context, location, _ string) (*client.ListResponse, error) {
	g.started <- location
	select {
	case <-g.release[location]:
		return &client.ListResponse{Jobs: []models.Job{g.jobs[location]}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestPage_OverlappingLoads(t *testing.T) {
	lister := newGatedLister("one", "two")
	p, _ := newPage(t, lister)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- p.Load(ctx, "one", "") }()
	require.Equal(t, "one", <-lister.started)

	second := make(chan error, 1)
	go func() { second <- p.Load(ctx, "two", "") }()
	require.Equal(t, "two", <-lister.started)

	select {
	case err := <-first:
		assert.ErrorIs(t, err, client.ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("first load was not canceled")
	}
	assert.True(t, p.Loading(), "newer load still in flight")
	assert.Empty(t, p.Items())

	close(lister.release["two"])
	require.NoError(t, <-second)

	assert.False(t, p.Loading())
	items := p.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "two", items[0].Job.Title)
}

func TestView_OlderLoadCannotOverwriteNewer(t *testing.T) {
	var v view
	older := v.begin()
	newer := v.begin()

	assert.True(t, v.show(newer, []DisplayItem{{Summary: "newer"}}, Status{}))
	v.done(newer)

	assert.False(t, v.show(older, nil, Status{Message: "stale", Kind: StatusDanger}))
	v.done(older)

	assert.False(t, v.Status().Visible())
	require.Len(t, v.Items(), 1)
	assert.Equal(t, "newer", v.Items()[0].Summary)
	assert.False(t, v.Loading())

	again := v.begin()
	v.done(older)
	assert.True(t, v.Loading())
	v.done(again)
	assert.False(t, v.Loading())
}

func TestPage_Apply(t *testing.T) {
	a, b := testJob("A"), testJob("B")
	p, store := newPage(t, &stubLister{res: &client.ListResponse{Jobs: []models.Job{a, b}}})
	require.NoError(t, p.Load(context.Background(), "", ""))

	assert.True(t, p.Apply(a.ID.String()))
	assert.False(t, p.Apply(a.ID.String()), "second apply is a no-op")
	assert.False(t, p.Apply("not-displayed"))

	items := p.Items()
	assert.True(t, items[0].Applied)
	assert.False(t, items[1].Applied, "only the applied item flips")
	assert.True(t, store.IsApplied(a.ID.String()))
	assert.False(t, store.IsApplied(b.ID.String()))
}

func TestPage_AppliedSurvivesReload(t *testing.T) {
	a := testJob("A")
	lister := &stubLister{res: &client.ListResponse{Jobs: []models.Job{a}}}
	p, _ := newPage(t, lister)

	require.NoError(t, p.Load(context.Background(), "", ""))
	p.Apply(a.ID.String())
	require.NoError(t, p.Load(context.Background(), "", ""))

	assert.True(t, p.Items()[0].Applied)
}

func newAppliedPage(t *testing.T, lister client.Lister, ids ...string) *AppliedPage {
	t.Helper()
	log := logger.NewTestLogger(t)
	store := applied.NewStore(applied.NewMemoryStorage(), log)
	for _, id := range ids {
		store.Add(id)
	}
	p := NewAppliedPage(lister, store, log)
	p.now = func() time.Time { return now }
	return p
}

func TestAppliedPage_NothingApplied(t *testing.T) {
	lister := &stubLister{}
	p := newAppliedPage(t, lister)

	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t, "You haven't applied for any jobs yet.", p.Status().Message)
	assert.Empty(t, lister.calls, "no fetch without applied ids")
}

func TestAppliedPage_ShowsOnlyAppliedListedJobs(t *testing.T) {
	a, b, c := testJob("A"), testJob("B"), testJob("C")
	lister := &stubLister{res: &client.ListResponse{Jobs: []models.Job{a, b, c}}}
	p := newAppliedPage(t, lister, c.ID.String(), a.ID.String(), "dangling")

	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t, []string{"|"}, lister.calls)

	items := p.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Job.Title)
	assert.Equal(t, "C", items[1].Job.Title)
	for _, it := range items {
		assert.True(t, it.Applied)
	}
}

func TestAppliedPage_NoneCurrentlyListed(t *testing.T) {
	lister := &stubLister{res: &client.ListResponse{Jobs: []models.Job{testJob("A")}}}
	p := newAppliedPage(t, lister, "gone")

	require.NoError(t, p.Load(context.Background()))
	assert.Equal(t,
		"You haven't applied for any jobs that are currently listed, or your applied jobs list is empty.",
		p.Status().Message)
}

func TestAppliedPage_Errors(t *testing.T) {
	p := newAppliedPage(t, &stubLister{res: &client.ListResponse{NoData: true}}, "x")
	require.Error(t, p.Load(context.Background()))
	assert.Equal(t, Status{Message: "Could not load applied jobs: No job data received from server.", Kind: StatusDanger}, p.Status())

	p = newAppliedPage(t, &stubLister{err: apperrors.NewFetchFailedError("HTTP error! status: 502", 502, nil)}, "x")
	require.Error(t, p.Load(context.Background()))
	assert.Equal(t, "Could not load applied jobs: HTTP error! status: 502", p.Status().Message)
}
