package notes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobscribe-backend/internal/jobs"
	"jobscribe-backend/internal/shared/server/middleware"
	"jobscribe-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the note service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches note routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/notes", h.create)
	rg.GET("/jobs/:id/notes", h.list)
	rg.PUT("/notes/:id", h.update)
	rg.DELETE("/notes/:id", h.delete)
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	note, err := h.Svc.Create(c.Request.Context(), userID, c.Param("id"), req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"note": note})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.ListForJob(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"notes": list, "count": len(list)})
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	note, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"note": note})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "note not found", nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, jobs.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
