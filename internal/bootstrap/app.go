// Package bootstrap assembles application dependencies.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/dashboard"
	"taxintake-backend/internal/identity"
	"taxintake-backend/internal/sessions"
	"taxintake-backend/internal/shared/config"
	"taxintake-backend/internal/shared/server"
	"taxintake-backend/internal/shared/storage/db"
	"taxintake-backend/internal/shared/storage/object"
	localstore "taxintake-backend/internal/shared/storage/object/local"
	s3store "taxintake-backend/internal/shared/storage/object/s3"
	"taxintake-backend/internal/submissions"
	"taxintake-backend/internal/web"
)

const localFilesRoute = "/files"

// App holds shared dependencies.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.Store
	Gateway           identity.Gateway
	Sessions          *sessions.Store
	SubmissionRepo    submissions.Repo
	SubmissionService *submissions.Service
	SubmissionHandler *submissions.Handler
	WebHandler        *web.Handler
	DashboardHandler  *dashboard.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, localDir, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gateway, err := identity.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Gateway:  gateway,
		Sessions: sessions.NewStore(!cfg.IsDevLike()),
	}

	if app.DB != nil {
		app.SubmissionRepo = &submissions.PGRepo{DB: app.DB}
	} else {
		app.SubmissionRepo = submissions.NewMemoryRepo()
	}

	app.SubmissionService = &submissions.Service{Store: app.Store, Repo: app.SubmissionRepo}
	app.SubmissionHandler = submissions.NewHandler(app.SubmissionService)
	app.WebHandler = web.NewHandler(app.Gateway, app.Sessions)
	app.DashboardHandler = dashboard.NewHandler(app.SubmissionService, app.Gateway, app.Sessions)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Gateway:           app.Gateway,
		Sessions:          app.Sessions,
		WebHandler:        app.WebHandler,
		SubmissionHandler: app.SubmissionHandler,
		DashboardHandler:  app.DashboardHandler,
		LocalFilesDir:     localDir,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return sqlDB, nil
}

// buildStore returns the object store plus the local directory to serve
// statically, which is empty for remote stores.
func buildStore(ctx context.Context, cfg config.Config) (object.Store, string, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.StorageBucket, cfg.S3Prefix, cfg.PublicBaseURL)
		return store, "", err
	default:
		base := cfg.PublicBaseURL
		if base == "" {
			base = localFilesRoute
		} else {
			base = strings.TrimRight(base, "/") + localFilesRoute
		}
		store := localstore.New(cfg.LocalStoreDir, base)
		return store, store.BaseDir(), nil
	}
}
