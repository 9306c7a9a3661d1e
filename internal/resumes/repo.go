package resumes

import "context"

// Repo defines persistence operations for resumes.
//
// Create enforces (ownerID, contentHash) uniqueness: when an identical resume
// already exists it is returned with created=false and nothing is written.
//
// AppendAnalysis and AppendOptimization are atomic push-to-bounded-list
// primitives scoped to one resume: concurrent appends must both land
// (append, never overwrite), with the history cap applied after insertion.
type Repo interface {
	Create(ctx context.Context, resume Resume) (Resume, bool, error)
	GetByID(ctx context.Context, ownerID, resumeID string) (Resume, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Resume, error)
	UpdateContent(ctx context.Context, ownerID, resumeID, title, content, contentHash string) (Resume, error)
	AppendAnalysis(ctx context.Context, ownerID, resumeID string, rec AnalysisRecord) (Resume, error)
	AppendOptimization(ctx context.Context, ownerID, resumeID string, rec OptimizationRecord) (Resume, error)
	Delete(ctx context.Context, ownerID, resumeID string) error
}
