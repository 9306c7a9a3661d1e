package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobscribe-backend/internal/ai"
	"jobscribe-backend/internal/ai/gemini"
	"jobscribe-backend/internal/jobs"
	"jobscribe-backend/internal/notes"
	"jobscribe-backend/internal/resumes"
	"jobscribe-backend/internal/shared/config"
	"jobscribe-backend/internal/shared/server"
	"jobscribe-backend/internal/shared/storage/db"
	"jobscribe-backend/internal/shared/storage/object"
	localstore "jobscribe-backend/internal/shared/storage/object/local"
	s3store "jobscribe-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ResumesRepo resumes.Repo
	JobsRepo    jobs.Repo
	NotesRepo   notes.Repo

	ResumesService *resumes.Service
	JobsService    *jobs.Service
	NotesService   *notes.Service

	ResumeHandler *resumes.Handler
	JobHandler    *jobs.Handler
	NoteHandler   *notes.Handler
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		ResumeHandler: app.ResumeHandler,
		JobHandler:    app.JobHandler,
		NoteHandler:   app.NoteHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(ctx context.Context, app *App) error {
	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.NotesRepo = &notes.PGRepo{DB: app.DB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
		app.NotesRepo = notes.NewMemoryRepo()
	}

	var analyzer ai.Analyzer
	var optimizer ai.Optimizer
	if strings.TrimSpace(app.Config.GeminiAPIKey) != "" {
		client, err := gemini.NewClient(ctx, app.Config.GeminiAPIKey, app.Config.GeminiModel)
		if err != nil {
			return fmt.Errorf("gemini client: %w", err)
		}
		analyzer = client
		optimizer = client
	} else {
		// Without a key the service serves fallback results; resume CRUD
		// stays fully functional.
		log.Printf("bootstrap: GEMINI_API_KEY empty; AI analysis disabled")
	}

	app.ResumesService = &resumes.Service{
		Repo:      app.ResumesRepo,
		Analyzer:  analyzer,
		Optimizer: optimizer,
		AITimeout: app.Config.AITimeout,
	}
	app.JobsService = &jobs.Service{Repo: app.JobsRepo}
	app.NotesService = &notes.Service{Repo: app.NotesRepo, Jobs: app.JobsService}
	app.JobsService.OnDelete = app.NotesService.DeleteForJob

	app.ResumeHandler = resumes.NewHandler(app.ResumesService, app.Store)
	app.JobHandler = jobs.NewHandler(app.JobsService)
	app.NoteHandler = notes.NewHandler(app.NotesService)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
