package notes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.Mutex
	byID map[string]Note
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: map[string]Note{}}
}

func (r *MemoryRepo) Create(ctx context.Context, note Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[note.ID] = note
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, noteID string) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.byID[noteID]
	if !ok || note.OwnerID != ownerID {
		return Note{}, ErrNotFound
	}
	return note, nil
}

func (r *MemoryRepo) ListByJob(ctx context.Context, ownerID, jobID string) ([]Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Note{}
	for _, note := range r.byID {
		if note.OwnerID == ownerID && note.JobID == jobID {
			out = append(out, note)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, note Note) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[note.ID]
	if !ok || existing.OwnerID != note.OwnerID {
		return Note{}, ErrNotFound
	}
	r.byID[note.ID] = note
	return note, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.byID[noteID]
	if !ok || note.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.byID, noteID)
	return nil
}

func (r *MemoryRepo) DeleteByJob(ctx context.Context, ownerID, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, note := range r.byID {
		if note.OwnerID == ownerID && note.JobID == jobID {
			delete(r.byID, id)
		}
	}
	return nil
}
