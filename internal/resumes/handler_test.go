package resumes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"jobscribe-backend/internal/ai"
	"jobscribe-backend/internal/bootstrap"
	"jobscribe-backend/internal/jobs"
	"jobscribe-backend/internal/notes"
	"jobscribe-backend/internal/resumes"
	"jobscribe-backend/internal/shared/config"
	"jobscribe-backend/internal/shared/server"
	localstore "jobscribe-backend/internal/shared/storage/object/local"
)

const resumeBody = "Senior Go developer. Built services with PostgreSQL, Kubernetes and AWS over eight years."

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "guest-abc")
}

func buildRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decode(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, resp.Body.String())
	}
}

func TestResumeCreateAndDeduplicate(t *testing.T) {
	router := buildRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", gin.H{
		"title":   "My Resume",
		"content": resumeBody,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Resume      resumes.Resume `json:"resume"`
		IsDuplicate bool           `json:"isDuplicate"`
	}
	decode(t, resp, &created)
	if created.IsDuplicate {
		t.Fatal("fresh resume reported as duplicate")
	}
	if created.Resume.ContentHash == "" {
		t.Fatal("expected content hash on response")
	}

	// Same content again returns the existing resume with 200.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes", gin.H{
		"content": "  " + strings.ToUpper(resumeBody),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("duplicate status = %d, body %s", resp.Code, resp.Body.String())
	}
	var dup struct {
		Resume      resumes.Resume `json:"resume"`
		IsDuplicate bool           `json:"isDuplicate"`
	}
	decode(t, resp, &dup)
	if !dup.IsDuplicate {
		t.Fatal("expected isDuplicate=true")
	}
	if dup.Resume.ID != created.Resume.ID {
		t.Fatal("duplicate create returned a different resume")
	}
}

func TestResumeRequiresIdentity(t *testing.T) {
	router := buildRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}

func TestResumeUploadTextFile(t *testing.T) {
	router := buildRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(resumeBody)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/file", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Resume resumes.Resume `json:"resume"`
	}
	decode(t, resp, &created)
	if created.Resume.SourceType != resumes.SourceFile {
		t.Fatalf("sourceType = %q", created.Resume.SourceType)
	}
	if created.Resume.Content != resumeBody {
		t.Fatal("extracted content mismatch")
	}
	if created.Resume.StorageKey == "" {
		t.Fatal("expected original upload retained in object store")
	}
}

func TestAnalyzeWithoutProviderServesFallback(t *testing.T) {
	router := buildRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", gin.H{"content": resumeBody})
	var created struct {
		Resume resumes.Resume `json:"resume"`
	}
	decode(t, resp, &created)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+created.Resume.ID+"/analyze", gin.H{
		"jobDescription": "Go developer role",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.Code, resp.Body.String())
	}
	var analyzed struct {
		Analysis  resumes.AnalysisRecord `json:"analysis"`
		FromCache bool                   `json:"fromCache"`
	}
	decode(t, resp, &analyzed)
	if analyzed.FromCache {
		t.Fatal("first analysis must not be cached")
	}
	if len(analyzed.Analysis.Suggestions) != 1 || analyzed.Analysis.Suggestions[0] != "analysis unavailable" {
		t.Fatalf("expected fallback analysis, got %+v", analyzed.Analysis)
	}

	// Re-analyzing the same description is a cache hit.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+created.Resume.ID+"/analyze", gin.H{
		"jobDescription": "Go developer role",
	})
	var cached struct {
		FromCache bool `json:"fromCache"`
	}
	decode(t, resp, &cached)
	if !cached.FromCache {
		t.Fatal("expected cache hit")
	}
}

func TestAnalyzeValidation(t *testing.T) {
	router := buildRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", gin.H{"content": resumeBody})
	var created struct {
		Resume resumes.Resume `json:"resume"`
	}
	decode(t, resp, &created)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+created.Resume.ID+"/analyze", gin.H{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing jobDescription: status = %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/missing/analyze", gin.H{
		"jobDescription": "anything",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("missing resume: status = %d", resp.Code)
	}
}

type stubOptimizer struct {
	content string
}

func (s stubOptimizer) Optimize(ctx context.Context, resumeText, jobDescription string, suggestions []string) (ai.Optimization, error) {
	return ai.Optimization{OptimizedContent: s.content, Success: true}, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (ai.Analysis, error) {
	return ai.Analysis{MatchScore: 70, Suggestions: []string{"quantify impact"}}, nil
}

func buildRouterWithAI(t *testing.T, analyzer ai.Analyzer, optimizer ai.Optimizer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resumeSvc := &resumes.Service{
		Repo:      resumes.NewMemoryRepo(),
		Analyzer:  analyzer,
		Optimizer: optimizer,
	}
	jobSvc := &jobs.Service{Repo: jobs.NewMemoryRepo()}
	noteSvc := &notes.Service{Repo: notes.NewMemoryRepo(), Jobs: jobSvc}

	return server.NewRouter(server.RouterDeps{
		Config:        config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}},
		ResumeHandler: resumes.NewHandler(resumeSvc, localstore.New(t.TempDir())),
		JobHandler:    jobs.NewHandler(jobSvc),
		NoteHandler:   notes.NewHandler(noteSvc),
	})
}

func TestOptimizeAndDownload(t *testing.T) {
	optimized := resumeBody + " Additionally led platform migrations and mentored two teams."
	router := buildRouterWithAI(t, stubAnalyzer{}, stubOptimizer{content: optimized})

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", gin.H{"content": resumeBody})
	var created struct {
		Resume resumes.Resume `json:"resume"`
	}
	decode(t, resp, &created)
	resumeID := created.Resume.ID

	// Optimize before any analysis is rejected.
	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+resumeID+"/optimize", gin.H{
		"jobDescription": "Go developer role",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("optimize without analysis: status = %d, body %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+resumeID+"/analyze", gin.H{
		"jobDescription": "Go developer role",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze: status = %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes/"+resumeID+"/optimize", gin.H{
		"jobDescription": "Go developer role",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("optimize: status = %d, body %s", resp.Code, resp.Body.String())
	}
	var result struct {
		Optimization resumes.OptimizationRecord `json:"optimization"`
		Success      bool                       `json:"success"`
		FromCache    bool                       `json:"fromCache"`
	}
	decode(t, resp, &result)
	if !result.Success || result.FromCache {
		t.Fatalf("optimize: success=%v fromCache=%v", result.Success, result.FromCache)
	}

	// Download the optimized text.
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/resumes/"+resumeID+"/optimizations/"+result.Optimization.ID+"/download", nil)
	addGuestHeader(req)
	download := httptest.NewRecorder()
	router.ServeHTTP(download, req)

	if download.Code != http.StatusOK {
		t.Fatalf("download: status = %d", download.Code)
	}
	if download.Body.String() != optimized {
		t.Fatal("downloaded content mismatch")
	}
	if !strings.Contains(download.Header().Get("Content-Disposition"), "attachment") {
		t.Fatal("expected attachment disposition")
	}
}

func TestListOmitsContent(t *testing.T) {
	router := buildRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", gin.H{"content": resumeBody})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/resumes", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: status = %d", resp.Code)
	}
	var listed struct {
		Resumes []map[string]any `json:"resumes"`
		Count   int              `json:"count"`
	}
	decode(t, resp, &listed)
	if listed.Count != 1 || len(listed.Resumes) != 1 {
		t.Fatalf("count = %d, resumes = %d", listed.Count, len(listed.Resumes))
	}
	if _, ok := listed.Resumes[0]["content"]; ok {
		t.Fatal("list view must not include resume content")
	}
	if listed.Resumes[0]["id"] == "" {
		t.Fatal("expected id in list view")
	}
}

func TestUpdateContentConflict(t *testing.T) {
	router := buildRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/resumes", gin.H{"content": resumeBody})
	var first struct {
		Resume resumes.Resume `json:"resume"`
	}
	decode(t, resp, &first)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/resumes", gin.H{"content": "A second, different resume."})
	var second struct {
		Resume resumes.Resume `json:"resume"`
	}
	decode(t, resp, &second)

	resp = doJSON(t, router, http.MethodPut, "/api/v1/resumes/"+second.Resume.ID, gin.H{
		"content": resumeBody,
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.Code)
	}
}
