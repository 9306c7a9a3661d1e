package resumes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobscribe-backend/internal/ai"
	"jobscribe-backend/internal/shared/telemetry"
	"jobscribe-backend/internal/shared/util"
)

const defaultAITimeout = 30 * time.Second

// DefaultJobTitle labels an analysis when the caller supplies none.
const DefaultJobTitle = "Job Analysis"

// Service contains business logic for resumes and their AI history.
type Service struct {
	Repo      Repo
	Analyzer  ai.Analyzer
	Optimizer ai.Optimizer
	AITimeout time.Duration
}

// CreateInput carries the fields needed to store a new resume.
type CreateInput struct {
	Title      string
	Content    string
	SourceType string
	FileName   string
	FileSize   int64
	MimeType   string
	StorageKey string
}

// Create stores a resume, deduplicating on the owner-scoped content hash.
// When an identical resume already exists it is returned with duplicate=true
// and nothing new is written.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Resume, bool, error) {
	if ownerID == "" {
		return Resume{}, false, errors.New("ownerID is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return Resume{}, false, ErrInvalidInput
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Untitled Resume"
	}
	sourceType := in.SourceType
	if sourceType == "" {
		sourceType = SourceText
	}

	now := time.Now().UTC()
	resume := Resume{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Title:         title,
		Content:       in.Content,
		ContentHash:   util.HashContent(in.Content),
		SourceType:    sourceType,
		FileName:      in.FileName,
		FileSize:      in.FileSize,
		MimeType:      in.MimeType,
		StorageKey:    in.StorageKey,
		Analyses:      []AnalysisRecord{},
		Optimizations: []OptimizationRecord{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	stored, created, err := s.Repo.Create(ctx, resume)
	if err != nil {
		return Resume{}, false, err
	}
	if !created {
		telemetry.Info("resume create deduplicated", map[string]any{
			"resumeId":    stored.ID,
			"contentHash": stored.ContentHash,
		})
	}
	return stored, !created, nil
}

// Get returns one resume scoped to its owner.
func (s *Service) Get(ctx context.Context, ownerID, resumeID string) (Resume, error) {
	if ownerID == "" || resumeID == "" {
		return Resume{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, ownerID, resumeID)
}

// List returns the owner's resumes, most recently updated first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Resume, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, ownerID)
}

// UpdateContent replaces a resume's title and content. Cached analyses and
// optimizations were computed against the old content, so both histories are
// cleared. Updating to content identical to another resume of the same owner
// fails with ErrDuplicateContent.
func (s *Service) UpdateContent(ctx context.Context, ownerID, resumeID, title, content string) (Resume, error) {
	if ownerID == "" || resumeID == "" {
		return Resume{}, ErrInvalidInput
	}
	if strings.TrimSpace(content) == "" {
		return Resume{}, ErrInvalidInput
	}
	current, err := s.Repo.GetByID(ctx, ownerID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if strings.TrimSpace(title) == "" {
		title = current.Title
	}
	return s.Repo.UpdateContent(ctx, ownerID, resumeID, strings.TrimSpace(title), content, util.HashContent(content))
}

// Delete removes a resume and its embedded history.
func (s *Service) Delete(ctx context.Context, ownerID, resumeID string) error {
	if ownerID == "" || resumeID == "" {
		return ErrInvalidInput
	}
	return s.Repo.Delete(ctx, ownerID, resumeID)
}

// Analyze returns the match analysis for a resume against a job description,
// serving a cached record when the same job description was already analyzed.
// Provider failures degrade to a fallback analysis rather than an error: the
// resume itself stays fully usable.
func (s *Service) Analyze(ctx context.Context, ownerID, resumeID, jobDescription, jobTitle string) (AnalysisRecord, bool, error) {
	if ownerID == "" || resumeID == "" {
		return AnalysisRecord{}, false, ErrInvalidInput
	}
	if strings.TrimSpace(jobDescription) == "" {
		return AnalysisRecord{}, false, ErrInvalidInput
	}

	resume, err := s.Repo.GetByID(ctx, ownerID, resumeID)
	if err != nil {
		return AnalysisRecord{}, false, err
	}

	jdHash := util.HashContent(jobDescription)
	if cached, ok := findAnalysisByHash(resume.Analyses, jdHash); ok {
		return cached, true, nil
	}

	result := s.runAnalysis(ctx, resume.Content, jobDescription)

	if strings.TrimSpace(jobTitle) == "" {
		jobTitle = DefaultJobTitle
	}
	rec := AnalysisRecord{
		ID:                    uuid.NewString(),
		JobDescriptionHash:    jdHash,
		JobDescriptionExcerpt: util.Truncate(jobDescription, ExcerptLimit),
		JobTitle:              strings.TrimSpace(jobTitle),
		MatchScore:            repairScore(result.MatchScore, resume.Content, jobDescription),
		Strengths:             result.Strengths,
		Suggestions:           result.Suggestions,
		MissingKeywords:       result.MissingKeywords,
		SectionsToImprove:     result.SectionsToImprove,
		CreatedAt:             time.Now().UTC(),
	}

	if _, err := s.Repo.AppendAnalysis(ctx, ownerID, resumeID, rec); err != nil {
		return AnalysisRecord{}, false, err
	}
	return rec, false, nil
}

func (s *Service) runAnalysis(ctx context.Context, resumeText, jobDescription string) ai.Analysis {
	if s.Analyzer == nil {
		return ai.FallbackAnalysis()
	}
	aiCtx, cancel := s.aiContext(ctx)
	defer cancel()

	result, err := s.Analyzer.Analyze(aiCtx, resumeText, jobDescription)
	if err != nil {
		telemetry.Error("analysis provider failed, using fallback", map[string]any{"error": err.Error()})
		return ai.FallbackAnalysis()
	}
	return result
}

// OptimizeInput selects which analysis to optimize against. AnalysisID wins
// when set; otherwise JobDescription is hashed and matched; otherwise the most
// recent analysis is used.
type OptimizeInput struct {
	AnalysisID     string
	JobDescription string
}

// OptimizeResult is the outcome of an optimization request. Record.ID is empty
// when the rewrite failed: failed rewrites are returned for inspection but
// never persisted or cached.
type OptimizeResult struct {
	Record    OptimizationRecord
	FromCache bool
	Success   bool
}

// Optimize rewrites a resume toward a previously analyzed job description.
// A cached optimization for the same job-description hash is returned without
// calling the provider.
func (s *Service) Optimize(ctx context.Context, ownerID, resumeID string, in OptimizeInput) (OptimizeResult, error) {
	if ownerID == "" || resumeID == "" {
		return OptimizeResult{}, ErrInvalidInput
	}

	resume, err := s.Repo.GetByID(ctx, ownerID, resumeID)
	if err != nil {
		return OptimizeResult{}, err
	}

	analysis, ok := selectAnalysis(resume.Analyses, in)
	if !ok {
		return OptimizeResult{}, ErrAnalysisNotFound
	}

	if cached, ok := findOptimizationByHash(resume.Optimizations, analysis.JobDescriptionHash); ok {
		return OptimizeResult{Record: cached, FromCache: true, Success: true}, nil
	}

	jobDescription := strings.TrimSpace(in.JobDescription)
	if jobDescription == "" {
		jobDescription = analysis.JobDescriptionExcerpt
	}

	result := s.runOptimization(ctx, resume.Content, jobDescription, analysis.Suggestions)

	rec := OptimizationRecord{
		AnalysisID:            analysis.ID,
		JobDescriptionHash:    analysis.JobDescriptionHash,
		JobDescriptionExcerpt: analysis.JobDescriptionExcerpt,
		JobTitle:              analysis.JobTitle,
		OriginalContent:       resume.Content,
		AppliedSuggestions:    analysis.Suggestions,
		CreatedAt:             time.Now().UTC(),
	}

	if !result.Success || tooShort(result.OptimizedContent, resume.Content) {
		telemetry.Info("optimization rejected, returning original content", map[string]any{
			"resumeId": resumeID,
		})
		rec.OptimizedContent = resume.Content
		return OptimizeResult{Record: rec, Success: false}, nil
	}

	rec.ID = uuid.NewString()
	rec.OptimizedContent = result.OptimizedContent
	if _, err := s.Repo.AppendOptimization(ctx, ownerID, resumeID, rec); err != nil {
		return OptimizeResult{}, err
	}
	return OptimizeResult{Record: rec, Success: true}, nil
}

func (s *Service) runOptimization(ctx context.Context, resumeText, jobDescription string, suggestions []string) ai.Optimization {
	if s.Optimizer == nil {
		return ai.FallbackOptimization(resumeText)
	}
	aiCtx, cancel := s.aiContext(ctx)
	defer cancel()

	result, err := s.Optimizer.Optimize(aiCtx, resumeText, jobDescription, suggestions)
	if err != nil {
		telemetry.Error("optimization provider failed, returning original", map[string]any{"error": err.Error()})
		return ai.FallbackOptimization(resumeText)
	}
	return result
}

// GetOptimization returns one cached optimization record, for re-display and
// download.
func (s *Service) GetOptimization(ctx context.Context, ownerID, resumeID, optimizationID string) (OptimizationRecord, error) {
	if ownerID == "" || resumeID == "" || optimizationID == "" {
		return OptimizationRecord{}, ErrInvalidInput
	}
	resume, err := s.Repo.GetByID(ctx, ownerID, resumeID)
	if err != nil {
		return OptimizationRecord{}, err
	}
	rec, ok := findOptimizationByID(resume.Optimizations, optimizationID)
	if !ok {
		return OptimizationRecord{}, ErrOptimizationNotFound
	}
	return rec, nil
}

func (s *Service) aiContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.AITimeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func selectAnalysis(list []AnalysisRecord, in OptimizeInput) (AnalysisRecord, bool) {
	if in.AnalysisID != "" {
		return findAnalysisByID(list, in.AnalysisID)
	}
	if jd := strings.TrimSpace(in.JobDescription); jd != "" {
		return findAnalysisByHash(list, util.HashContent(jd))
	}
	if len(list) == 0 {
		return AnalysisRecord{}, false
	}
	return list[0], true
}

// tooShort rejects rewrites that dropped more than half of the original text;
// a heavily truncated "optimization" is treated as a provider failure.
func tooShort(optimized, original string) bool {
	return len(strings.TrimSpace(optimized)) < len(original)/2
}
