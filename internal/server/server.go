// Package server wires the HTTP layer: routing, middleware, template
// rendering, and the handlers behind each page.
package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"chronicle/internal/cache"
	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/mailer"
	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/repository"
	"chronicle/internal/service"
	"chronicle/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"gorm.io/gorm"
)

// Server holds all application dependencies behind the HTTP handlers.
type Server struct {
	config   *config.Config
	db       *gorm.DB
	gate     *middleware.SessionGate
	accounts *service.AccountService
	posts    *service.PostService
	comments *service.CommentService
	mail     mailer.Mailer
	prom     *fiberprometheus.FiberPrometheus
}

// NewServer connects to the database and cache and builds a fully wired Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db), nil
}

// NewServerWithDeps builds a Server on top of an existing database handle.
// Used directly by tests and the auxiliary commands.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	gate := middleware.NewSessionGate(cfg.SecretKey, userRepo.GetByID, cfg.IsProduction())

	return &Server{
		config:   cfg,
		db:       db,
		gate:     gate,
		accounts: service.NewAccountService(userRepo, cfg.AdminEmail),
		posts:    service.NewPostService(postRepo),
		comments: service.NewCommentService(commentRepo, postRepo),
		mail:     mailer.NewFromConfig(cfg),
		prom:     middleware.InitMetrics("chronicle"),
	}
}

// NewApp builds the Fiber application with the template engine, middleware
// chain, and routes.
func (s *Server) NewApp() *fiber.App {
	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.AddFunc("gravatar", GravatarURL)
	engine.AddFunc("safeHTML", SafeHTML)

	app := fiber.New(fiber.Config{
		AppName:      "chronicle",
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: s.errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware installs the global middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(fiberrecover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Identity first so the context middleware can pick up the user ID.
	app.Use(s.gate.LoadIdentity())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	s.prom.RegisterAt(app, "/metrics")
	app.Use(s.prom.Middleware)
}

// SetupRoutes registers every route of the application. Admin-only routes are
// guarded at registration time.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Index)

	app.Get("/register", s.RegisterPage)
	app.Post("/register", s.Register)
	app.Get("/login", s.LoginPage)
	app.Post("/login", s.Login)
	app.Get("/logout", s.Logout)

	app.Get("/post/:id", s.ShowPost)
	app.Post("/post/:id", s.AddComment)

	app.Get("/about", s.About)
	app.Get("/contact", s.ContactPage)
	app.Post("/contact", s.Contact)

	admin := s.gate.RequireAdmin()
	app.Get("/new-post", admin, s.NewPostPage)
	app.Post("/new-post", admin, s.CreatePost)
	app.Get("/edit-post/:id", admin, s.EditPostPage)
	app.Post("/edit-post/:id", admin, s.UpdatePost)
	app.Get("/delete/:id", admin, s.DeletePost)
}

// errorHandler maps errors escaping the handlers onto rendered error pages.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong on our side."

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			status = fiber.StatusNotFound
			message = "The page you are looking for does not exist."
		case models.CodeForbidden:
			status = fiber.StatusForbidden
		case models.CodeValidation:
			status = fiber.StatusBadRequest
			message = appErr.Message
		}
	}

	if status == fiber.StatusForbidden {
		message = "You do not have permission to do that."
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	renderErr := c.Status(status).Render("error", fiber.Map{
		"Status":      status,
		"Message":     message,
		"CurrentUser": middleware.CurrentUser(c),
	}, "layouts/main")
	if renderErr != nil {
		return c.Status(status).SendString(message)
	}
	return nil
}

// Shutdown releases the server's external resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if client := cache.GetClient(); client != nil {
		if err := client.Close(); err != nil {
			middleware.Logger.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
