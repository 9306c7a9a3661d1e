package resumes

import "time"

const (
	SourceText = "text"
	SourceFile = "file"

	// HistoryLimit bounds the per-resume analysis and optimization history.
	HistoryLimit = 10

	// ExcerptLimit bounds the stored job-description excerpt. The full text is
	// not retained; callers re-supply it when a downstream step needs it.
	ExcerptLimit = 500
)

// Resume is a stored resume owned by a user, carrying its bounded AI history.
type Resume struct {
	ID            string               `json:"id"`
	OwnerID       string               `json:"ownerId"`
	Title         string               `json:"title"`
	Content       string               `json:"content"`
	ContentHash   string               `json:"contentHash"`
	SourceType    string               `json:"sourceType"`
	FileName      string               `json:"fileName,omitempty"`
	FileSize      int64                `json:"fileSize,omitempty"`
	MimeType      string               `json:"mimeType,omitempty"`
	StorageKey    string               `json:"storageKey,omitempty"`
	Analyses      []AnalysisRecord     `json:"analyses"`
	Optimizations []OptimizationRecord `json:"optimizations"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// AnalysisRecord is one cached match analysis, keyed by the job-description hash.
type AnalysisRecord struct {
	ID                    string    `json:"id"`
	JobDescriptionHash    string    `json:"jobDescriptionHash"`
	JobDescriptionExcerpt string    `json:"jobDescriptionExcerpt"`
	JobTitle              string    `json:"jobTitle"`
	MatchScore            int       `json:"matchScore"`
	Strengths             []string  `json:"strengths"`
	Suggestions           []string  `json:"suggestions"`
	MissingKeywords       []string  `json:"missingKeywords"`
	SectionsToImprove     []string  `json:"sectionsToImprove"`
	CreatedAt             time.Time `json:"createdAt"`
}

// OptimizationRecord is one cached AI rewrite, derived from a prior analysis.
// AnalysisID is a historical reference: the parent analysis may age out of the
// bounded history without invalidating this record.
type OptimizationRecord struct {
	ID                    string    `json:"id,omitempty"`
	AnalysisID            string    `json:"analysisId"`
	JobDescriptionHash    string    `json:"jobDescriptionHash"`
	JobDescriptionExcerpt string    `json:"jobDescriptionExcerpt"`
	JobTitle              string    `json:"jobTitle"`
	OriginalContent       string    `json:"originalContent"`
	OptimizedContent      string    `json:"optimizedContent"`
	AppliedSuggestions    []string  `json:"appliedSuggestions"`
	CreatedAt             time.Time `json:"createdAt"`
}

func findAnalysisByHash(list []AnalysisRecord, hash string) (AnalysisRecord, bool) {
	return findFirst(list, func(a AnalysisRecord) bool { return a.JobDescriptionHash == hash })
}

func findAnalysisByID(list []AnalysisRecord, id string) (AnalysisRecord, bool) {
	return findFirst(list, func(a AnalysisRecord) bool { return a.ID == id })
}

func findOptimizationByHash(list []OptimizationRecord, hash string) (OptimizationRecord, bool) {
	return findFirst(list, func(o OptimizationRecord) bool { return o.JobDescriptionHash == hash })
}

func findOptimizationByID(list []OptimizationRecord, id string) (OptimizationRecord, bool) {
	return findFirst(list, func(o OptimizationRecord) bool { return o.ID == id })
}
