package notes

import "errors"

var (
	// ErrNotFound indicates the note is absent or not owned by the caller.
	ErrNotFound = errors.New("note not found")

	// ErrInvalidInput indicates validation failed.
	ErrInvalidInput = errors.New("invalid input")
)
