package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores resumes in memory and is safe for concurrent use.
// The package mutex doubles as the per-resume critical section the append
// primitives require.
type MemoryRepo struct {
	mu          sync.Mutex
	byID        map[string]Resume
	byOwnerHash map[ownerHashKey]string
}

type ownerHashKey struct {
	ownerID     string
	contentHash string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:        make(map[string]Resume),
		byOwnerHash: make(map[ownerHashKey]string),
	}
}

// Create stores the resume unless one with the same owner and content hash
// exists, in which case the existing resume is returned unchanged.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) (Resume, bool, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ownerHashKey{resume.OwnerID, resume.ContentHash}
	if existingID, ok := r.byOwnerHash[key]; ok {
		return r.byID[existingID], false, nil
	}

	r.byID[resume.ID] = resume
	r.byOwnerHash[key] = resume.ID
	return resume, true, nil
}

// GetByID returns a resume scoped to its owner.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(ownerID, resumeID)
}

func (r *MemoryRepo) getLocked(ownerID, resumeID string) (Resume, error) {
	resume, ok := r.byID[resumeID]
	if !ok || resume.OwnerID != ownerID {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// ListByOwner returns the owner's resumes, most recently updated first.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Resume{}
	for _, resume := range r.byID {
		if resume.OwnerID == ownerID {
			out = append(out, resume)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// UpdateContent replaces title and content, recomputing the dedup index and
// clearing all cached AI history: it was computed under the old content hash.
func (r *MemoryRepo) UpdateContent(ctx context.Context, ownerID, resumeID, title, content, contentHash string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	resume, err := r.getLocked(ownerID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	newKey := ownerHashKey{ownerID, contentHash}
	if existingID, ok := r.byOwnerHash[newKey]; ok && existingID != resumeID {
		return Resume{}, ErrDuplicateContent
	}

	delete(r.byOwnerHash, ownerHashKey{ownerID, resume.ContentHash})
	resume.Title = title
	resume.Content = content
	resume.ContentHash = contentHash
	resume.Analyses = []AnalysisRecord{}
	resume.Optimizations = []OptimizationRecord{}
	resume.UpdatedAt = time.Now().UTC()

	r.byID[resumeID] = resume
	r.byOwnerHash[newKey] = resumeID
	return resume, nil
}

// AppendAnalysis pushes rec onto the resume's bounded analysis history.
func (r *MemoryRepo) AppendAnalysis(ctx context.Context, ownerID, resumeID string, rec AnalysisRecord) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	resume, err := r.getLocked(ownerID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	resume.Analyses = appendAnalysis(resume.Analyses, rec)
	resume.UpdatedAt = time.Now().UTC()
	r.byID[resumeID] = resume
	return resume, nil
}

// AppendOptimization pushes rec onto the resume's bounded optimization history.
func (r *MemoryRepo) AppendOptimization(ctx context.Context, ownerID, resumeID string, rec OptimizationRecord) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	resume, err := r.getLocked(ownerID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	resume.Optimizations = appendOptimization(resume.Optimizations, rec)
	resume.UpdatedAt = time.Now().UTC()
	r.byID[resumeID] = resume
	return resume, nil
}

// Delete removes the resume and, with it, all embedded history.
func (r *MemoryRepo) Delete(ctx context.Context, ownerID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	resume, err := r.getLocked(ownerID, resumeID)
	if err != nil {
		return err
	}

	delete(r.byID, resumeID)
	delete(r.byOwnerHash, ownerHashKey{ownerID, resume.ContentHash})
	return nil
}
