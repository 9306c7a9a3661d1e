package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobscribe-backend/internal/jobs"
)

// JobGetter is the slice of the job service notes depend on: notes only
// attach to jobs the caller owns.
type JobGetter interface {
	Get(ctx context.Context, ownerID, jobID string) (jobs.Job, error)
}

// Service contains business logic for job notes.
type Service struct {
	Repo Repo
	Jobs JobGetter
}

// Create attaches a note to an owned job.
func (s *Service) Create(ctx context.Context, ownerID, jobID, title, content string) (Note, error) {
	if ownerID == "" || jobID == "" {
		return Note{}, ErrInvalidInput
	}
	if strings.TrimSpace(content) == "" {
		return Note{}, ErrInvalidInput
	}
	if _, err := s.Jobs.Get(ctx, ownerID, jobID); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return Note{}, jobs.ErrNotFound
		}
		return Note{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "Note"
	}

	now := time.Now().UTC()
	note := Note{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		JobID:     jobID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, note); err != nil {
		return Note{}, err
	}
	return note, nil
}

// ListForJob returns the notes attached to an owned job, newest first.
func (s *Service) ListForJob(ctx context.Context, ownerID, jobID string) ([]Note, error) {
	if ownerID == "" || jobID == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.Jobs.Get(ctx, ownerID, jobID); err != nil {
		return nil, err
	}
	return s.Repo.ListByJob(ctx, ownerID, jobID)
}

// Update replaces a note's title and content. Empty fields keep their current
// values.
func (s *Service) Update(ctx context.Context, ownerID, noteID, title, content string) (Note, error) {
	if ownerID == "" || noteID == "" {
		return Note{}, ErrInvalidInput
	}
	note, err := s.Repo.GetByID(ctx, ownerID, noteID)
	if err != nil {
		return Note{}, err
	}

	if v := strings.TrimSpace(title); v != "" {
		note.Title = v
	}
	if strings.TrimSpace(content) != "" {
		note.Content = content
	}
	note.UpdatedAt = time.Now().UTC()

	return s.Repo.Update(ctx, note)
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, ownerID, noteID string) error {
	if ownerID == "" || noteID == "" {
		return ErrInvalidInput
	}
	return s.Repo.Delete(ctx, ownerID, noteID)
}

// DeleteForJob removes every note attached to a job. Called when the job
// itself is deleted.
func (s *Service) DeleteForJob(ctx context.Context, ownerID, jobID string) error {
	if ownerID == "" || jobID == "" {
		return ErrInvalidInput
	}
	return s.Repo.DeleteByJob(ctx, ownerID, jobID)
}
