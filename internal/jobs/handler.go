package jobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobscribe-backend/internal/shared/server/middleware"
	"jobscribe-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the job service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.create)
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.PUT("/jobs/:id", h.update)
	rg.DELETE("/jobs/:id", h.delete)
}

type jobRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Status      string `json:"status"`
}

func (req jobRequest) toInput() Input {
	return Input{
		Title:       req.Title,
		Company:     req.Company,
		Link:        req.Link,
		Description: req.Description,
		Location:    req.Location,
		Status:      req.Status,
	}
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	job, err := h.Svc.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"job": job})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"jobs": list, "count": len(list)})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	job, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"job": job})
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	job, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	respond.OK(c, gin.H{"job": job})
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
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
