package notes

import (
	"context"
	"errors"
	"testing"

	"jobscribe-backend/internal/jobs"
)

func newTestService(t *testing.T) (*Service, jobs.Job) {
	t.Helper()
	jobSvc := &jobs.Service{Repo: jobs.NewMemoryRepo()}
	job, err := jobSvc.Create(context.Background(), "user-1", jobs.Input{Title: "Backend Engineer", Company: "Acme"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return &Service{Repo: NewMemoryRepo(), Jobs: jobSvc}, job
}

func TestCreateRequiresOwnedJob(t *testing.T) {
	svc, job := newTestService(t)

	note, err := svc.Create(context.Background(), "user-1", job.ID, "", "Recruiter call on Friday")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if note.Title != "Note" {
		t.Fatalf("Title = %q, want default", note.Title)
	}

	if _, err := svc.Create(context.Background(), "user-2", job.ID, "", "x"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("cross-owner create: err = %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-1", job.ID, "", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty content: err = %v", err)
	}
}

func TestListAndDeleteForJob(t *testing.T) {
	svc, job := newTestService(t)

	for _, content := range []string{"first", "second"} {
		if _, err := svc.Create(context.Background(), "user-1", job.ID, "", content); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := svc.ListForJob(context.Background(), "user-1", job.ID)
	if err != nil {
		t.Fatalf("ListForJob: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}

	if err := svc.DeleteForJob(context.Background(), "user-1", job.ID); err != nil {
		t.Fatalf("DeleteForJob: %v", err)
	}
	list, err = svc.ListForJob(context.Background(), "user-1", job.ID)
	if err != nil {
		t.Fatalf("ListForJob: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("len = %d, want 0 after cascade", len(list))
	}
}

func TestJobDeleteCascadesToNotes(t *testing.T) {
	jobSvc := &jobs.Service{Repo: jobs.NewMemoryRepo()}
	noteSvc := &Service{Repo: NewMemoryRepo(), Jobs: jobSvc}
	jobSvc.OnDelete = noteSvc.DeleteForJob

	job, err := jobSvc.Create(context.Background(), "user-1", jobs.Input{Title: "A", Company: "Acme"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	note, err := noteSvc.Create(context.Background(), "user-1", job.ID, "", "phone screen notes")
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	if err := jobSvc.Delete(context.Background(), "user-1", job.ID); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if _, err := noteSvc.Repo.GetByID(context.Background(), "user-1", note.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("note should be gone: err = %v", err)
	}
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	svc, job := newTestService(t)
	note, err := svc.Create(context.Background(), "user-1", job.ID, "Interview prep", "Review system design")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(context.Background(), "user-1", note.ID, "", "Review Go concurrency")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Interview prep" {
		t.Fatalf("Title = %q", updated.Title)
	}
	if updated.Content != "Review Go concurrency" {
		t.Fatalf("Content = %q", updated.Content)
	}
}
