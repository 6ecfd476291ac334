package state

import (
	"context"
	"fmt"
	"sync"

	"reelforge/types"
)

// Store persists render jobs so the API can answer status queries while the
// worker owns the pipeline.
type Store interface {
	Save(ctx context.Context, job *types.RenderJob) error
	Get(ctx context.Context, id string) (*types.RenderJob, error)
	List(ctx context.Context) ([]*types.RenderJob, error)
}

// ErrJobNotFound is returned by Get for unknown job IDs.
var ErrJobNotFound = fmt.Errorf("job not found")

// MemoryStore keeps jobs in process memory. Used by the demo and as the
// fallback when Redis is not configured.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]types.RenderJob
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]types.RenderJob)}
}

// Save stores a snapshot of the job (thread-safe).
func (m *MemoryStore) Save(ctx context.Context, job *types.RenderJob) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("job must have an ID")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

// Get returns a copy of the stored job (thread-safe).
func (m *MemoryStore) Get(ctx context.Context, id string) (*types.RenderJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

// List returns copies of all stored jobs (thread-safe, unordered).
func (m *MemoryStore) List(ctx context.Context) ([]*types.RenderJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.RenderJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		j := job
		out = append(out, &j)
	}
	return out, nil
}
