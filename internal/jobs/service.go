package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for tracked jobs.
// OnDelete, when set, runs after a job is removed so attached records
// (notes) can be cleaned up without a package cycle.
type Service struct {
	Repo     Repo
	OnDelete func(ctx context.Context, ownerID, jobID string) error
}

// Input carries the writable job fields.
type Input struct {
	Title       string
	Company     string
	Link        string
	Description string
	Location    string
	Status      string
}

// Create stores a new tracked job. Status defaults to saved.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (Job, error) {
	if ownerID == "" {
		return Job{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Company) == "" {
		return Job{}, ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = StatusSaved
	}
	if !ValidStatus(status) {
		return Job{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	job := Job{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Link:        strings.TrimSpace(in.Link),
		Description: in.Description,
		Location:    strings.TrimSpace(in.Location),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns one job scoped to its owner.
func (s *Service) Get(ctx context.Context, ownerID, jobID string) (Job, error) {
	if ownerID == "" || jobID == "" {
		return Job{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, ownerID, jobID)
}

// List returns the owner's jobs, optionally filtered by pipeline status.
func (s *Service) List(ctx context.Context, ownerID, status string) ([]Job, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	if status != "" && !ValidStatus(status) {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, ownerID, status)
}

// Update replaces the writable fields of a job. Empty fields keep their
// current values.
func (s *Service) Update(ctx context.Context, ownerID, jobID string, in Input) (Job, error) {
	if ownerID == "" || jobID == "" {
		return Job{}, ErrInvalidInput
	}
	job, err := s.Repo.GetByID(ctx, ownerID, jobID)
	if err != nil {
		return Job{}, err
	}

	if v := strings.TrimSpace(in.Title); v != "" {
		job.Title = v
	}
	if v := strings.TrimSpace(in.Company); v != "" {
		job.Company = v
	}
	if v := strings.TrimSpace(in.Link); v != "" {
		job.Link = v
	}
	if in.Description != "" {
		job.Description = in.Description
	}
	if v := strings.TrimSpace(in.Location); v != "" {
		job.Location = v
	}
	if in.Status != "" {
		if !ValidStatus(in.Status) {
			return Job{}, ErrInvalidInput
		}
		job.Status = in.Status
	}
	job.UpdatedAt = time.Now().UTC()

	return s.Repo.Update(ctx, job)
}

// Delete removes a job and cascades to its attached records.
func (s *Service) Delete(ctx context.Context, ownerID, jobID string) error {
	if ownerID == "" || jobID == "" {
		return ErrInvalidInput
	}
	if err := s.Repo.Delete(ctx, ownerID, jobID); err != nil {
		return err
	}
	if s.OnDelete != nil {
		return s.OnDelete(ctx, ownerID, jobID)
	}
	return nil
}
