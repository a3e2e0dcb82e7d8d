// internal/client/fetcher.go
package client

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned to a fetch that was replaced by a newer one.
var ErrSuperseded = errors.New("FETCH_SUPERSEDED")

// Lister is the part of Client the Fetcher drives.
type Lister interface {
	ListJobs(ctx context.Context, location, skills string) (*ListResponse, error)
}

// Fetcher serializes listing fetches for one page: starting a fetch cancels
// the one in flight, and only the latest fetch may deliver a result.
type Fetcher struct {
	lister Lister

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func NewFetcher(l Lister) *Fetcher {
	return &Fetcher{lister: l}
}

func (f *Fetcher) Fetch(ctx context.Context, location, skills string) (*ListResponse, error) {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	gen := f.gen
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	res, err := f.lister.ListJobs(ctx, location, skills)

	f.mu.Lock()
	current := gen == f.gen
	if current {
		f.cancel = nil
	}
	f.mu.Unlock()
	cancel()

	if !current {
		return nil, ErrSuperseded
	}
	return res, err
}

// Generation is the number of fetches started so far.
func (f *Fetcher) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}
