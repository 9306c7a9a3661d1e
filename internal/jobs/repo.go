package jobs

import "context"

// Repo abstracts job persistence.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, ownerID, jobID string) (Job, error)
	ListByOwner(ctx context.Context, ownerID, status string) ([]Job, error)
	Update(ctx context.Context, job Job) (Job, error)
	Delete(ctx context.Context, ownerID, jobID string) error
}
