package jobs

import "errors"

var (
	// ErrNotFound indicates the job is absent or not owned by the caller.
	ErrNotFound = errors.New("job not found")

	// ErrInvalidInput indicates validation failed.
	ErrInvalidInput = errors.New("invalid input")
)
