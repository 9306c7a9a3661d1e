package notes

import "context"

// Repo abstracts note persistence.
type Repo interface {
	Create(ctx context.Context, note Note) error
	GetByID(ctx context.Context, ownerID, noteID string) (Note, error)
	ListByJob(ctx context.Context, ownerID, jobID string) ([]Note, error)
	Update(ctx context.Context, note Note) (Note, error)
	Delete(ctx context.Context, ownerID, noteID string) error
	DeleteByJob(ctx context.Context, ownerID, jobID string) error
}
