// Package server contains the HTTP handlers for the blog API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	_ "scribe/docs" // swagger docs
	"scribe/internal/auth"
	"scribe/internal/bootstrap"
	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const serviceName = "scribe-api"

// ErrServerClosed is returned by Start after Shutdown has been called.
var ErrServerClosed = errors.New("server is shut down")

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenIssuer
	authService    *service.AuthService
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// NewServerWithDeps creates a Server on an already-initialized database.
// Shutdown closes db.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB) (*Server, error) {
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:       []byte(cfg.JWTSecret),
		TTL:          cfg.TokenTTL(),
		IncludeEmail: cfg.TokenIncludeEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	hasher := bootstrap.NewHasher(cfg)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		promMiddleware: middleware.InitMetrics(serviceName),
		tokens:         tokens,
		authService:    service.NewAuthService(userRepo, hasher, tokens),
		userService:    service.NewUserService(userRepo, postRepo),
		postService:    service.NewPostService(postRepo),
		commentService: service.NewCommentService(commentRepo, postRepo),
	}
	s.app = s.newApp()
	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Tracing first so the trace ID is in locals for ContextMiddleware.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	users := app.Group("/users")
	users.Get("/", s.ListUsers)
	users.Post("/", s.Signup)
	users.Post("/login", s.Login)
	// Registered before /:id so "profile" is not parsed as an ID.
	users.Get("/profile", middleware.AuthRequired(s.tokens), s.Profile)
	users.Post("/profile", middleware.AuthRequired(s.tokens), s.Profile)
	users.Get("/:id", s.GetUser)
	users.Get("/:id/posts", s.GetUserPosts)

	posts := app.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Post("/new", middleware.OptionalAuth(s.tokens), s.CreatePost)
	posts.Get("/:id", s.GetPost)

	comments := app.Group("/comments")
	comments.Post("/", middleware.OptionalAuth(s.tokens), s.CreateComment)
	comments.Get("/:id", s.ListComments)
}

// errorHandler renders errors that escape handlers: Fiber's own (404,
// 405, body too large) keep their status, everything else is a 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	return models.RespondWithError(c, err)
}

func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Scribe Blog API",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// LivenessCheck handles liveness check requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database answers.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": dbStatus,
		"checks": fiber.Map{
			"database": dbStatus,
		},
		"time": time.Now(),
	})
}

// App returns the Fiber app built by NewServerWithDeps.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start blocks serving on the configured port. It returns nil once
// Shutdown stops it, and ErrServerClosed if Shutdown already ran.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrServerClosed
	}
	ln, err := net.Listen("tcp", ":"+s.config.Port)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listen on port %s: %w", s.config.Port, err)
	}
	s.listener = ln
	s.mu.Unlock()

	middleware.Logger.Info("Server starting", slog.String("addr", ln.Addr().String()))
	err = s.app.Listener(ln)
	if s.isClosed() {
		return nil
	}
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Shutdown stops accepting requests and closes the database pool. Start
// calls that have not begun listening yet return ErrServerClosed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	ln := s.listener
	s.mu.Unlock()

	var errs []error
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if ln != nil {
		// Already closed when the app got to serve on it.
		_ = ln.Close()
	}
	if err := database.Close(s.db); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	middleware.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
