package resumes

import "errors"

var (
	// ErrNotFound indicates the resume is absent or not owned by the caller.
	ErrNotFound = errors.New("resume not found")

	// ErrAnalysisNotFound indicates the referenced analysis does not exist on
	// the resume; optimization always derives from a prior analysis.
	ErrAnalysisNotFound = errors.New("analysis not found")

	// ErrOptimizationNotFound indicates the referenced optimization record is absent.
	ErrOptimizationNotFound = errors.New("optimization not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateContent indicates a content update would collide with another
	// resume's content hash for the same owner.
	ErrDuplicateContent = errors.New("duplicate content")
)
