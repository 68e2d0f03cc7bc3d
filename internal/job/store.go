// Package job runs enrichment pipelines as trackable background jobs.
package job

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/laundrymap/enrich-cli/internal/model"
)

// ErrNotFound is returned when a job id is unknown to the store.
var ErrNotFound = eris.New("job: not found")

// Store is the injected job registry. Implementations must serialize
// operations on the same job id; reads always return snapshots that are
// safe to use while the job keeps running.
type Store interface {
	Create(job *model.BatchJob) error
	// Update applies fn to the stored job under the store's lock.
	Update(id string, fn func(*model.BatchJob)) error
	Get(id string) (*model.BatchJob, error)
	List() []*model.BatchJob
}

// MemoryStore keeps jobs in process memory. Entries live only as long
// as the process; there is deliberately no persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.BatchJob
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*model.BatchJob)}
}

// Create registers a new job. The id must be unique.
func (s *MemoryStore) Create(job *model.BatchJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; ok {
		return eris.Errorf("job: duplicate id %s", job.ID)
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

// Update applies fn to the stored job under the write lock, which
// serializes transitions on the same id.
func (s *MemoryStore) Update(id string, fn func(*model.BatchJob)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	fn(job)
	return nil
}

// Get returns a snapshot of the job.
func (s *MemoryStore) Get(id string) (*model.BatchJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return job.Clone(), nil
}

// List returns snapshots of all jobs, newest first.
func (s *MemoryStore) List() []*model.BatchJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.BatchJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}
