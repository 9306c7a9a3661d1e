package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobscribe-backend/internal/jobs"
	"jobscribe-backend/internal/notes"
	"jobscribe-backend/internal/resumes"
	"jobscribe-backend/internal/shared/config"
	"jobscribe-backend/internal/shared/server/middleware"
	"jobscribe-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config        config.Config
	ResumeHandler *resumes.Handler
	JobHandler    *jobs.Handler
	NoteHandler   *notes.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	// Everything below needs an owner identity.
	owned := api.Group("")
	owned.Use(middleware.Identity())
	deps.ResumeHandler.RegisterRoutes(owned)
	deps.JobHandler.RegisterRoutes(owned)
	deps.NoteHandler.RegisterRoutes(owned)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
