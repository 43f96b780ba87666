package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxintake-backend/internal/dashboard"
	"taxintake-backend/internal/identity"
	"taxintake-backend/internal/sessions"
	"taxintake-backend/internal/shared/config"
	"taxintake-backend/internal/shared/metrics"
	"taxintake-backend/internal/shared/server/middleware"
	"taxintake-backend/internal/shared/server/respond"
	"taxintake-backend/internal/submissions"
	"taxintake-backend/internal/web"
)

// RouterDeps carries the handlers and shared state the router wires up.
type RouterDeps struct {
	Config            config.Config
	Gateway           identity.Gateway
	Sessions          *sessions.Store
	WebHandler        *web.Handler
	SubmissionHandler *submissions.Handler
	DashboardHandler  *dashboard.Handler

	// LocalFilesDir, when set, is served at /files so locally stored
	// documents resolve to working public URLs.
	LocalFilesDir string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	deps.WebHandler.RegisterPublicRoutes(r)

	// The public form carries a per-client throttle so one submitter
	// cannot monopolize the intake.
	formLimiter := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"form": {Rate: 10.0 / 60.0, Burst: 10},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/form" {
				return "form"
			}
			return ""
		},
	})
	deps.SubmissionHandler.RegisterFormRoutes(r.Group("", formLimiter))

	authPage := r.Group("", middleware.RedirectAuthed(deps.Sessions, deps.Gateway))
	deps.WebHandler.RegisterAuthRoutes(authPage, r)

	admin := r.Group(middleware.ProtectedRoot, middleware.Guard(deps.Sessions, deps.Gateway))
	deps.DashboardHandler.RegisterRoutes(admin)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	guardedAPI := api.Group("", middleware.Guard(deps.Sessions, deps.Gateway))
	deps.SubmissionHandler.RegisterAPIRoutes(guardedAPI)

	r.GET("/metrics", metrics.Handler())

	if deps.LocalFilesDir != "" {
		r.Static("/files", deps.LocalFilesDir)
	}

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
