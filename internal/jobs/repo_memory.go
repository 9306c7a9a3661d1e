package jobs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Job
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Job{}}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[job.ID] = job
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, jobID string) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.byID[jobID]
	if !ok || job.OwnerID != ownerID {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID, status string) ([]Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Job{}
	for _, job := range r.byID {
		if job.OwnerID != ownerID {
			continue
		}
		if status != "" && job.Status != status {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, job Job) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[job.ID]
	if !ok || existing.OwnerID != job.OwnerID {
		return Job{}, ErrNotFound
	}
	r.byID[job.ID] = job
	return job, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.byID[jobID]
	if !ok || job.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.byID, jobID)
	return nil
}
