// internal/applied/store.go
package applied

import (
	"encoding/json"
	"sort"
	"sync"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
)

// StorageKey is the key the applied job ids are persisted under.
const StorageKey = "appliedJobIds"

// IDSet is a set of job id strings.
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Store records which jobs this client has applied to. Every call reads the
// persisted set afresh, so writes from another Store over the same storage
// are seen. It never returns an error to the caller: unreadable state reads
// as empty, and ids whose write failed stay applied for this Store's lifetime.
type Store struct {
	storage Storage
	logger  logger.Logger

	mu      sync.Mutex
	unsaved []string
}

func NewStore(storage Storage, log logger.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger.Component(log, "applied-store"),
	}
}

// AppliedIDs returns a copy of the applied set.
func (s *Store) AppliedIDs() IDSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewIDSet(s.read()...)
}

func (s *Store) IsApplied(id string) bool {
	return s.AppliedIDs().Contains(id)
}

// Add inserts id and persists the set. It reports whether id was new.
func (s *Store) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.read()
	if contains(ids, id) {
		return false
	}
	ids = append(ids, id)

	data, err := json.Marshal(ids)
	if err == nil {
		err = s.storage.SetItem(StorageKey, string(data))
	}
	if err != nil {
		s.logger.Warn("failed to persist applied jobs", map[string]interface{}{
			"job_id": id,
			"error":  apperrors.NewAppliedStatePersistFailedError(err).Error(),
		})
		s.unsaved = append(s.unsaved, id)
		return true
	}
	// ids included every unsaved one
	s.unsaved = nil
	return true
}

// read loads the persisted ids and appends any that could not be written.
func (s *Store) read() []string {
	ids := s.readStorage()
	for _, id := range s.unsaved {
		if !contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Store) readStorage() []string {
	raw, ok, err := s.storage.GetItem(StorageKey)
	if err != nil {
		s.warnCorrupt(err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.warnCorrupt(err)
		return nil
	}
	return ids
}

func (s *Store) warnCorrupt(err error) {
	s.logger.Warn("applied job state unreadable, starting empty", map[string]interface{}{
		"error": apperrors.NewAppliedStateCorruptError(err).Error(),
	})
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
