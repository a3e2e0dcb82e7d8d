// internal/listing/page.go
package listing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"jobboard/internal/applied"
	"jobboard/internal/client"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/models"
)

type StatusKind string

const (
	StatusInfo   StatusKind = "info"
	StatusDanger StatusKind = "danger"
)

const (
	msgNoJobsFallback   = "No jobs posted yet or found matching criteria."
	msgNoJobData        = "No job data received from server."
	msgNoneApplied      = "You haven't applied for any jobs yet."
	msgNoneAppliedShown = "You haven't applied for any jobs that are currently listed, or your applied jobs list is empty."
)

// Status is the banner shown instead of, or above, the items. An empty
// Message means no banner.
type Status struct {
	Message string
	Kind    StatusKind
}

func (s Status) Visible() bool { return s.Message != "" }

// errorMessage prefers the user facing message of a StandardError.
func errorMessage(err error) string {
	if se, ok := apperrors.As(err); ok {
		return se.Message
	}
	return err.Error()
}

// view holds what both pages display. Each load takes a generation from
// begin; done and show only take effect for the latest one.
type view struct {
	mu      sync.Mutex
	gen     uint64
	items   []DisplayItem
	status  Status
	loading bool
}

func (v *view) begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.loading = true
	v.items = nil
	v.status = Status{}
	return v.gen
}

func (v *view) done(gen uint64) {
	v.mu.Lock()
	if gen == v.gen {
		v.loading = false
	}
	v.mu.Unlock()
}

// show reports false when a newer load has started since gen.
func (v *view) show(gen uint64, items []DisplayItem, status Status) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}
	v.items = items
	v.status = status
	return true
}

func (v *view) Items() []DisplayItem {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]DisplayItem, len(v.items))
	copy(out, v.items)
	return out
}

func (v *view) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *view) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Page is the job listing page.
type Page struct {
	view
	fetcher *client.Fetcher
	store   *applied.Store
	logger  logger.Logger
	now     func() time.Time
}

func NewPage(fetcher *client.Fetcher, store *applied.Store, log logger.Logger) *Page {
	return &Page{
		fetcher: fetcher,
		store:   store,
		logger:  logger.Component(log, "listing-page"),
		now:     time.Now,
	}
}

// Load fetches and renders the listing for the given filters. Fetch
// failures end up in Status and are also returned. A load replaced by a
// newer one returns client.ErrSuperseded and leaves the display and the
// loading flag to the newer load.
func (p *Page) Load(ctx context.Context, location, skills string) error {
	gen := p.begin()
	defer p.done(gen)

	res, err := p.fetcher.Fetch(ctx, strings.TrimSpace(location), strings.TrimSpace(skills))
	if errors.Is(err, client.ErrSuperseded) {
		return err
	}
	if err != nil {
		if !p.show(gen, nil, Status{Message: "Could not load jobs: " + errorMessage(err), Kind: StatusDanger}) {
			return client.ErrSuperseded
		}
		p.logger.Error("error fetching jobs", map[string]interface{}{"error": err.Error()})
		return err
	}

	var items []DisplayItem
	var status Status
	switch {
	case len(res.Jobs) == 0 && res.Message != "":
		status = Status{Message: res.Message, Kind: StatusInfo}
	case len(res.Jobs) == 0:
		status = Status{Message: msgNoJobsFallback, Kind: StatusInfo}
	default:
		items = Render(res.Jobs, p.store.AppliedIDs(), p.now(), p.logger)
	}
	if !p.show(gen, items, status) {
		return client.ErrSuperseded
	}
	return nil
}

// Apply marks the displayed job id as applied. It reports false when the
// id is not displayed or is already applied.
func (p *Page) Apply(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.items {
		if p.items[i].Job.ID.String() != id {
			continue
		}
		if p.items[i].Applied {
			return false
		}
		p.store.Add(id)
		p.items[i].Applied = true
		p.logger.Info("applied for job", map[string]interface{}{"job_id": id})
		return true
	}
	return false
}

// AppliedPage lists the currently listed jobs this client applied to.
type AppliedPage struct {
	view
	lister client.Lister
	store  *applied.Store
	logger logger.Logger
	now    func() time.Time
}

func NewAppliedPage(lister client.Lister, store *applied.Store, log logger.Logger) *AppliedPage {
	return &AppliedPage{
		lister: lister,
		store:  store,
		logger: logger.Component(log, "applied-page"),
		now:    time.Now,
	}
}

// Load shows the applied jobs that are still listed. Like Page.Load, a load
// overtaken by a newer one returns client.ErrSuperseded.
func (p *AppliedPage) Load(ctx context.Context) error {
	gen := p.begin()
	defer p.done(gen)

	ids := p.store.AppliedIDs()
	if len(ids) == 0 {
		if !p.show(gen, nil, Status{Message: msgNoneApplied, Kind: StatusInfo}) {
			return client.ErrSuperseded
		}
		return nil
	}

	res, err := p.lister.ListJobs(ctx, "", "")
	if err == nil && res.NoData {
		msg := res.Message
		if msg == "" {
			msg = msgNoJobData
		}
		err = apperrors.NewFetchFailedError(msg, 0, nil)
	}
	if err != nil {
		if !p.show(gen, nil, Status{Message: "Could not load applied jobs: " + errorMessage(err), Kind: StatusDanger}) {
			return client.ErrSuperseded
		}
		p.logger.Error("error loading applied jobs", map[string]interface{}{"error": err.Error()})
		return err
	}

	matched := make([]models.Job, 0, len(ids))
	for _, job := range res.Jobs {
		if ids.Contains(job.ID.String()) {
			matched = append(matched, job)
		}
	}
	var items []DisplayItem
	status := Status{Message: msgNoneAppliedShown, Kind: StatusInfo}
	if len(matched) > 0 {
		items, status = Render(matched, ids, p.now(), p.logger), Status{}
	}
	if !p.show(gen, items, status) {
		return client.ErrSuperseded
	}
	return nil
}
