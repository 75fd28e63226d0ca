package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sl0thC0der/yt-download-ng/internal/entity"
)

var ErrNotFound = errors.New("job not found")

// entry pairs a job with its own lock so updates to different jobs never
// serialize on each other. The outer map lock is only held for lookups
// and inserts.
type entry struct {
	mu  sync.Mutex
	job *entity.Job
}

// Store is the in-memory job table and the single source of truth for job
// state. Jobs persist for the process lifetime; there is no delete.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
	order   []uuid.UUID
}

func New() *Store {
	return &Store{entries: make(map[uuid.UUID]*entry)}
}

// Create inserts a new pending job and returns a copy of the record.
// retryOf/retryCount carry lineage when the job was created by a retry.
func (s *Store) Create(url, profile string, retryOf *uuid.UUID, retryCount int) *entity.Job {
	now := time.Now().UTC()
	job := &entity.Job{
		ID:         uuid.New(),
		URL:        url,
		Profile:    profile,
		Status:     entity.StatusPending,
		Logs:       []string{"queued: " + url + " (profile " + profile + ")"},
		RetryOf:    retryOf,
		RetryCount: retryCount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.entries[job.ID] = &entry{job: job}
	s.order = append(s.order, job.ID)
	s.mu.Unlock()

	return job.Clone()
}

func (s *Store) lookup(id uuid.UUID) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Get returns a copy of the job.
func (s *Store) Get(id uuid.UUID) (*entity.Job, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.job.Clone(), nil
}

// Update applies mutate under the entry lock and refreshes updated_at.
// The returned job is a copy of the record after the mutation.
func (s *Store) Update(id uuid.UUID, mutate func(*entity.Job)) (*entity.Job, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	mutate(e.job)
	e.job.UpdatedAt = time.Now().UTC()
	return e.job.Clone(), nil
}

// List returns copies of all jobs in insertion order.
func (s *Store) List() []*entity.Job {
	s.mu.RLock()
	ids := append([]uuid.UUID(nil), s.order...)
	s.mu.RUnlock()

	jobs := make([]*entity.Job, 0, len(ids))
	for _, id := range ids {
		if j, err := s.Get(id); err == nil {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
