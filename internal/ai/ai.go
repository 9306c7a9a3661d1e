package ai

import "context"

// Analysis is the typed result of a resume-to-job match analysis.
// MatchScore is kept as float64 here because providers return loosely typed
// JSON; callers are expected to clamp or repair it before persisting.
type Analysis struct {
	MatchScore        float64
	Strengths         []string
	Suggestions       []string
	MissingKeywords   []string
	SectionsToImprove []string
}

// Optimization is the typed result of an AI resume rewrite.
type Optimization struct {
	OptimizedContent string
	Success          bool
}

// Analyzer produces a match analysis for a resume against a job description.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (Analysis, error)
}

// Optimizer rewrites resume text toward a job description, applying suggestions.
type Optimizer interface {
	Optimize(ctx context.Context, resumeText, jobDescription string, suggestions []string) (Optimization, error)
}

// FallbackAnalysis is the degraded-but-valid result substituted when the
// provider fails. Analysis is a best-effort enrichment; its unavailability
// must not block resume operations.
func FallbackAnalysis() Analysis {
	return Analysis{
		MatchScore:        0,
		Strengths:         []string{},
		Suggestions:       []string{"analysis unavailable"},
		MissingKeywords:   []string{},
		SectionsToImprove: []string{},
	}
}

// FallbackOptimization returns the original content unchanged, marked unsuccessful.
func FallbackOptimization(original string) Optimization {
	return Optimization{OptimizedContent: original, Success: false}
}
