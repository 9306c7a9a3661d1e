package resumes

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"jobscribe-backend/internal/ai"
)

type fakeAnalyzer struct {
	result ai.Analysis
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (ai.Analysis, error) {
	f.calls++
	return f.result, f.err
}

type fakeOptimizer struct {
	result ai.Optimization
	err    error
	calls  int
}

func (f *fakeOptimizer) Optimize(ctx context.Context, resumeText, jobDescription string, suggestions []string) (ai.Optimization, error) {
	f.calls++
	return f.result, f.err
}

const testResumeContent = "Senior Go developer. Built services with PostgreSQL, Kubernetes and AWS over eight years."

func setupService(t *testing.T, analyzer ai.Analyzer, optimizer ai.Optimizer) (*Service, Resume) {
	t.Helper()
	svc := &Service{
		Repo:      NewMemoryRepo(),
		Analyzer:  analyzer,
		Optimizer: optimizer,
	}
	resume, dup, err := svc.Create(context.Background(), "user-1", CreateInput{
		Title:   "My Resume",
		Content: testResumeContent,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dup {
		t.Fatal("fresh resume reported as duplicate")
	}
	return svc, resume
}

func TestCreateDeduplicatesByNormalizedContent(t *testing.T) {
	svc, first := setupService(t, nil, nil)

	// Same content modulo case and surrounding whitespace.
	variant := "  " + strings.ToUpper(testResumeContent) + "\n"
	second, dup, err := svc.Create(context.Background(), "user-1", CreateInput{Content: variant})
	if err != nil {
		t.Fatalf("Create duplicate: %v", err)
	}
	if !dup {
		t.Fatal("expected duplicate detection")
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing resume returned, got %s want %s", second.ID, first.ID)
	}

	list, err := svc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected a single stored resume, got %d", len(list))
	}
}

func TestCreateSameContentDifferentOwners(t *testing.T) {
	svc, _ := setupService(t, nil, nil)

	_, dup, err := svc.Create(context.Background(), "user-2", CreateInput{Content: testResumeContent})
	if err != nil {
		t.Fatalf("Create for second owner: %v", err)
	}
	if dup {
		t.Fatal("dedup must be owner-scoped")
	}
}

func TestAnalyzeCachesByJobDescriptionHash(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{
		MatchScore:  80,
		Strengths:   []string{"go"},
		Suggestions: []string{"add terraform"},
	}}
	svc, resume := setupService(t, analyzer, nil)

	jd := "We need a Go developer with Kubernetes."
	first, fromCache, err := svc.Analyze(context.Background(), "user-1", resume.ID, jd, "Backend Engineer")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if fromCache {
		t.Fatal("first analysis must not be cached")
	}
	if first.MatchScore != 80 {
		t.Fatalf("MatchScore = %d, want 80", first.MatchScore)
	}
	if first.JobTitle != "Backend Engineer" {
		t.Fatalf("JobTitle = %q", first.JobTitle)
	}

	// Same description with different casing and padding hits the cache.
	second, fromCache, err := svc.Analyze(context.Background(), "user-1", resume.ID, "  "+strings.ToUpper(jd), "")
	if err != nil {
		t.Fatalf("Analyze cached: %v", err)
	}
	if !fromCache {
		t.Fatal("expected cache hit")
	}
	if second.ID != first.ID {
		t.Fatalf("cache returned a different record: %s vs %s", second.ID, first.ID)
	}
	if analyzer.calls != 1 {
		t.Fatalf("provider called %d times, want 1", analyzer.calls)
	}
}

func TestAnalyzeDistinctDescriptionsMiss(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: 50}}
	svc, resume := setupService(t, analyzer, nil)

	if _, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, "first job description", ""); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, "second job description", ""); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analyzer.calls != 2 {
		t.Fatalf("provider called %d times, want 2", analyzer.calls)
	}
}

func TestAnalyzeFallsBackOnProviderError(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("provider down")}
	svc, resume := setupService(t, analyzer, nil)

	rec, fromCache, err := svc.Analyze(context.Background(), "user-1", resume.ID, "some job description", "")
	if err != nil {
		t.Fatalf("Analyze should degrade, not fail: %v", err)
	}
	if fromCache {
		t.Fatal("fallback is a fresh computation")
	}
	if rec.MatchScore != 0 {
		t.Fatalf("fallback MatchScore = %d, want 0", rec.MatchScore)
	}
	if len(rec.Suggestions) != 1 || rec.Suggestions[0] != "analysis unavailable" {
		t.Fatalf("fallback Suggestions = %v", rec.Suggestions)
	}
	if rec.JobTitle != DefaultJobTitle {
		t.Fatalf("JobTitle = %q, want default", rec.JobTitle)
	}

	// The fallback result is cached like any other analysis.
	_, fromCache, err = svc.Analyze(context.Background(), "user-1", resume.ID, "some job description", "")
	if err != nil {
		t.Fatalf("Analyze cached fallback: %v", err)
	}
	if !fromCache {
		t.Fatal("expected cache hit on fallback record")
	}
}

func TestAnalyzeRepairsGarbageScore(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: math.NaN()}}
	svc, resume := setupService(t, analyzer, nil)

	rec, _, err := svc.Analyze(context.Background(), "user-1", resume.ID,
		"Go developer with Kubernetes and PostgreSQL", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rec.MatchScore < scoreFloor || rec.MatchScore > scoreCeil {
		t.Fatalf("repaired score %d outside [%d, %d]", rec.MatchScore, scoreFloor, scoreCeil)
	}
}

func TestAnalyzeStoresExcerptOnly(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: 60}}
	svc, resume := setupService(t, analyzer, nil)

	long := strings.Repeat("senior backend role ", 100)
	rec, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, long, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rec.JobDescriptionExcerpt) > ExcerptLimit {
		t.Fatalf("excerpt length %d exceeds %d", len(rec.JobDescriptionExcerpt), ExcerptLimit)
	}
}

func TestOptimizeRequiresPriorAnalysis(t *testing.T) {
	svc, resume := setupService(t, nil, &fakeOptimizer{})

	_, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{
		JobDescription: "never analyzed",
	})
	if !errors.Is(err, ErrAnalysisNotFound) {
		t.Fatalf("err = %v, want ErrAnalysisNotFound", err)
	}
}

func TestOptimizeCachesAndReusesResult(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: 55, Suggestions: []string{"quantify impact"}}}
	optimized := testResumeContent + " Additionally led migrations and mentored engineers across three product teams."
	optimizer := &fakeOptimizer{result: ai.Optimization{OptimizedContent: optimized, Success: true}}
	svc, resume := setupService(t, analyzer, optimizer)

	jd := "Staff engineer role with Go and Kubernetes"
	analysis, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, jd, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	first, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{JobDescription: jd})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !first.Success || first.FromCache {
		t.Fatalf("first optimize: success=%v fromCache=%v", first.Success, first.FromCache)
	}
	if first.Record.ID == "" {
		t.Fatal("successful optimization must be persisted with an id")
	}
	if first.Record.AnalysisID != analysis.ID {
		t.Fatalf("AnalysisID = %q, want %q", first.Record.AnalysisID, analysis.ID)
	}
	if first.Record.OptimizedContent != optimized {
		t.Fatal("optimized content not returned")
	}

	second, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{JobDescription: jd})
	if err != nil {
		t.Fatalf("Optimize cached: %v", err)
	}
	if !second.FromCache {
		t.Fatal("expected cache hit")
	}
	if second.Record.ID != first.Record.ID {
		t.Fatal("cache returned a different record")
	}
	if optimizer.calls != 1 {
		t.Fatalf("provider called %d times, want 1", optimizer.calls)
	}
}

func TestOptimizeRejectsTruncatedRewrite(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: 55}}
	optimizer := &fakeOptimizer{result: ai.Optimization{OptimizedContent: "too short", Success: true}}
	svc, resume := setupService(t, analyzer, optimizer)

	jd := "Go role"
	if _, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, jd, ""); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	result, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{JobDescription: jd})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.Success {
		t.Fatal("truncated rewrite must be reported as failed")
	}
	if result.Record.ID != "" {
		t.Fatal("failed optimization must not be persisted")
	}
	if result.Record.OptimizedContent != testResumeContent {
		t.Fatal("failed optimization must return the original content")
	}

	stored, err := svc.Get(context.Background(), "user-1", resume.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Optimizations) != 0 {
		t.Fatalf("optimization history should be empty, has %d entries", len(stored.Optimizations))
	}

	// A retry is a fresh attempt, never a cache hit on the failure.
	if _, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{JobDescription: jd}); err != nil {
		t.Fatalf("Optimize retry: %v", err)
	}
	if optimizer.calls != 2 {
		t.Fatalf("provider called %d times, want 2", optimizer.calls)
	}
}

func TestOptimizeProviderErrorReturnsOriginal(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: 55}}
	optimizer := &fakeOptimizer{err: errors.New("provider down")}
	svc, resume := setupService(t, analyzer, optimizer)

	jd := "Go role"
	if _, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, jd, ""); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	result, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{JobDescription: jd})
	if err != nil {
		t.Fatalf("Optimize should degrade, not fail: %v", err)
	}
	if result.Success {
		t.Fatal("provider error must be reported as failure")
	}
	if result.Record.OptimizedContent != testResumeContent {
		t.Fatal("expected original content back")
	}
}

func TestOptimizeDefaultsToMostRecentAnalysis(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: 55}}
	optimized := testResumeContent + " Expanded with measurable outcomes for every role listed."
	optimizer := &fakeOptimizer{result: ai.Optimization{OptimizedContent: optimized, Success: true}}
	svc, resume := setupService(t, analyzer, optimizer)

	if _, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, "older role", ""); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	newest, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, "newest role", "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	result, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.Record.AnalysisID != newest.ID {
		t.Fatalf("optimized against %q, want most recent %q", result.Record.AnalysisID, newest.ID)
	}
}

func TestUpdateContentClearsHistories(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: 55}}
	optimized := testResumeContent + " Extended descriptions of leadership and systems design work."
	optimizer := &fakeOptimizer{result: ai.Optimization{OptimizedContent: optimized, Success: true}}
	svc, resume := setupService(t, analyzer, optimizer)

	jd := "Go role"
	if _, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, jd, ""); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if _, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{JobDescription: jd}); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	updated, err := svc.UpdateContent(context.Background(), "user-1", resume.ID, "", "Entirely rewritten resume content after a career change.")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if len(updated.Analyses) != 0 || len(updated.Optimizations) != 0 {
		t.Fatalf("histories not cleared: %d analyses, %d optimizations",
			len(updated.Analyses), len(updated.Optimizations))
	}
	if updated.Title != "My Resume" {
		t.Fatalf("empty title should keep the current one, got %q", updated.Title)
	}

	// The old job description is a cache miss against the new content.
	_, fromCache, err := svc.Analyze(context.Background(), "user-1", resume.ID, jd, "")
	if err != nil {
		t.Fatalf("Analyze after update: %v", err)
	}
	if fromCache {
		t.Fatal("stale cache served after content update")
	}
}

func TestUpdateContentRejectsCollision(t *testing.T) {
	svc, _ := setupService(t, nil, nil)
	other, _, err := svc.Create(context.Background(), "user-1", CreateInput{Content: "A different resume body."})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.UpdateContent(context.Background(), "user-1", other.ID, "", testResumeContent)
	if !errors.Is(err, ErrDuplicateContent) {
		t.Fatalf("err = %v, want ErrDuplicateContent", err)
	}
}

func TestGetOptimization(t *testing.T) {
	analyzer := &fakeAnalyzer{result: ai.Analysis{MatchScore: 55}}
	optimized := testResumeContent + " Added a concise summary section aligned with the posting."
	optimizer := &fakeOptimizer{result: ai.Optimization{OptimizedContent: optimized, Success: true}}
	svc, resume := setupService(t, analyzer, optimizer)

	jd := "Go role"
	if _, _, err := svc.Analyze(context.Background(), "user-1", resume.ID, jd, ""); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	result, err := svc.Optimize(context.Background(), "user-1", resume.ID, OptimizeInput{JobDescription: jd})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	rec, err := svc.GetOptimization(context.Background(), "user-1", resume.ID, result.Record.ID)
	if err != nil {
		t.Fatalf("GetOptimization: %v", err)
	}
	if rec.OptimizedContent != optimized {
		t.Fatal("wrong record returned")
	}

	if _, err := svc.GetOptimization(context.Background(), "user-1", resume.ID, "missing"); !errors.Is(err, ErrOptimizationNotFound) {
		t.Fatalf("err = %v, want ErrOptimizationNotFound", err)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	svc, resume := setupService(t, nil, nil)

	if _, err := svc.Get(context.Background(), "user-2", resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner Get: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), "user-2", resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner Delete: err = %v, want ErrNotFound", err)
	}
}
