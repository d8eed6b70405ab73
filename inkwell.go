// Package inkwell is a self-hosted blog content manager. Public readers get
// a cacheable JSON surface over published posts; a single admin creates,
// edits, publishes, and deletes posts through a rich-text editor that only
// ever hands the server raw HTML.
//
// All persistence goes through the blog package's Repository contract, so
// the same app runs against a local content directory, an S3-compatible
// bucket, or SQLite without the handlers knowing which.
package inkwell

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkwell-engine/inkwell/blog"
)

// App is the central inkwell application. It wires together the repository,
// the content service, the view cache, and the HTTP surface.
type App struct {
	Config  Config
	Echo    *echo.Echo
	Service *blog.Service
	Views   *ViewCache

	repo         blog.Repository
	logger       zerolog.Logger
	loginLimiter *loginLimiter
}

// New creates an inkwell App with the given configuration, logging to stderr.
func New(cfg Config) *App {
	return NewWithLogger(cfg, zerolog.New(os.Stderr).With().Timestamp().Logger())
}

// NewWithLogger is New with an explicit logger, for embedding and tests.
func NewWithLogger(cfg Config, logger zerolog.Logger) *App {
	cfg.setDefaults()
	return &App{
		Config: cfg,
		Echo:   echo.New(),
		logger: logger,
	}
}

// Start initializes storage, the service, middleware, and routes, then runs
// the server until Shutdown is called.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("inkwell: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("inkwell: SessionSecret is required")
	}

	repo, err := blog.OpenRepository(a.Config.storage(), a.logger)
	if err != nil {
		return fmt.Errorf("inkwell: open repository: %w", err)
	}
	a.repo = repo

	a.Views = NewViewCache(a.Config.ViewCacheTTL)
	a.Service = blog.NewService(repo, a.Views, a.logger)
	a.loginLimiter = newLoginLimiter(5, time.Minute)

	a.Echo.HideBanner = true
	a.setupMiddleware()
	a.setupRoutes()

	a.logger.Info().Str("addr", a.Config.Addr).Msg("starting server")
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static assets, including uploaded cover images.
	e.Static("/public", "public")

	// Public read surface.
	e.GET("/api/posts", a.handleListPosts)
	e.GET("/api/posts/:slug", a.handleGetPost)

	// Admin surface.
	e.POST("/admin/login", a.handleAdminLogin)
	e.POST("/admin/logout", handleAdminLogout)

	admin := e.Group("/admin/api", requireAdmin)
	admin.GET("/posts", a.handleAdminListPosts)
	admin.GET("/posts/:id", a.handleAdminGetPost)
	admin.POST("/posts", a.handleAdminCreatePost)
	admin.PUT("/posts/:id", a.handleAdminUpdatePost)
	admin.DELETE("/posts/:id", a.handleAdminDeletePost)
	admin.POST("/images", a.handleImageUpload)
	admin.DELETE("/images/:filename", a.handleImageDelete)
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases storage resources. Call after Shutdown.
func (a *App) Close() error {
	if closer, ok := a.repo.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
