package resumes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobscribe-backend/internal/extract"
	"jobscribe-backend/internal/shared/server/middleware"
	"jobscribe-backend/internal/shared/server/respond"
	"jobscribe-backend/internal/shared/storage/object"
	"jobscribe-backend/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the resume service.
type Handler struct {
	Svc   *Service
	Store object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Store: store}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.create)
	rg.POST("/resumes/file", h.createFromFile)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.DELETE("/resumes/:id", h.delete)
	rg.POST("/resumes/:id/analyze", h.analyze)
	rg.POST("/resumes/:id/optimize", h.optimize)
	rg.GET("/resumes/:id/optimizations/:optimizationId/download", h.downloadOptimization)
}

type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content is required",
			[]respond.FieldError{{Field: "content", Message: "must not be empty"}})
		return
	}

	resume, duplicate, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Title:      req.Title,
		Content:    req.Content,
		SourceType: SourceText,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Set("resumeId", resume.ID)

	status := http.StatusCreated
	if duplicate {
		status = http.StatusOK
	}
	respond.JSON(c, status, gin.H{"resume": resume, "isDuplicate": duplicate})
}

func (h *Handler) createFromFile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	content, err := extract.Text(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported file type", nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not extract text from file", nil)
		return
	}
	if strings.TrimSpace(content) == "" {
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "file contains no extractable text", nil)
		return
	}

	storageKey, size, mimeType, err := h.Store.Save(c.Request.Context(), userID, fileName, bytes.NewReader(data))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store file", nil)
		return
	}

	title := c.PostForm("title")
	if strings.TrimSpace(title) == "" {
		title = strings.TrimSuffix(fileName, pathExt(fileName))
	}

	resume, duplicate, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Title:      title,
		Content:    content,
		SourceType: SourceFile,
		FileName:   fileName,
		FileSize:   size,
		MimeType:   mimeType,
		StorageKey: storageKey,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Set("resumeId", resume.ID)

	status := http.StatusCreated
	if duplicate {
		status = http.StatusOK
	}
	respond.JSON(c, status, gin.H{"resume": resume, "isDuplicate": duplicate})
}

// listItem is the list view of a resume: full content and histories stay on
// the detail endpoint.
type listItem struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	SourceType        string `json:"sourceType"`
	FileName          string `json:"fileName,omitempty"`
	AnalysisCount     int    `json:"analysisCount"`
	OptimizationCount int    `json:"optimizationCount"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]listItem, 0, len(list))
	for _, r := range list {
		items = append(items, listItem{
			ID:                r.ID,
			Title:             r.Title,
			SourceType:        r.SourceType,
			FileName:          r.FileName,
			AnalysisCount:     len(r.Analyses),
			OptimizationCount: len(r.Optimizations),
			CreatedAt:         r.CreatedAt.Format(time.RFC3339),
			UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
		})
	}
	respond.OK(c, gin.H{"resumes": items, "count": len(items)})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	resume, err := h.Svc.Get(c.Request.Context(), userID, resumeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

type updateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "content is required",
			[]respond.FieldError{{Field: "content", Message: "must not be empty"}})
		return
	}

	resume, err := h.Svc.UpdateContent(c.Request.Context(), userID, resumeID, req.Title, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": resume})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	if err := h.Svc.Delete(c.Request.Context(), userID, resumeID); err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

type analyzeRequest struct {
	JobDescription string `json:"jobDescription"`
	JobTitle       string `json:"jobTitle"`
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription is required",
			[]respond.FieldError{{Field: "jobDescription", Message: "must not be empty"}})
		return
	}

	rec, fromCache, err := h.Svc.Analyze(c.Request.Context(), userID, resumeID, req.JobDescription, req.JobTitle)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Set("fromCache", fromCache)
	respond.OK(c, gin.H{"analysis": rec, "fromCache": fromCache})
}

type optimizeRequest struct {
	JobDescription string `json:"jobDescription"`
	AnalysisID     string `json:"analysisId"`
}

func (h *Handler) optimize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Optimize(c.Request.Context(), userID, resumeID, OptimizeInput{
		AnalysisID:     req.AnalysisID,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Set("fromCache", result.FromCache)
	respond.OK(c, gin.H{
		"optimization": result.Record,
		"fromCache":    result.FromCache,
		"success":      result.Success,
	})
}

func (h *Handler) downloadOptimization(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	c.Set("resumeId", resumeID)

	rec, err := h.Svc.GetOptimization(c.Request.Context(), userID, resumeID, c.Param("optimizationId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("optimized-resume-%s.txt", rec.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(rec.OptimizedContent))
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrAnalysisNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "no matching analysis; analyze the resume against this job description first", nil)
	case errors.Is(err, ErrOptimizationNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "optimization not found", nil)
	case errors.Is(err, ErrDuplicateContent):
		respond.Error(c, http.StatusConflict, "duplicate_content", "another resume with identical content already exists", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func pathExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}
