// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"time"

	"threadline/internal/cache"
	"threadline/internal/config"
	"threadline/internal/content"
	"threadline/internal/database"
	"threadline/internal/middleware"
	"threadline/internal/models"
	"threadline/internal/repository"
	"threadline/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	registry       *content.Registry
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	commentService *service.CommentService
}

// NewServer creates a server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests use this with an in-memory database.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Commentable content types. Registering a kind here is all an
	// entity needs to start accepting comments.
	registry := content.NewRegistry()
	registry.Register(models.KindPosts, func(ctx context.Context, id uint) (any, error) {
		return postRepo.GetByID(ctx, id)
	})
	registry.Register(models.KindUsers, func(ctx context.Context, id uint) (any, error) {
		return userRepo.GetByID(ctx, id)
	})

	s := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		registry:    registry,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	s.commentService = service.NewCommentService(commentRepo, registry, s.isAdminByUserID)

	middleware.InitMiddleware(cfg)

	return s
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.Tracing())

	prom := fiberprometheus.New("threadline")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", s.HealthCheck)

	auth := api.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)

	api.Post("/posts", middleware.AuthRequired, s.CreatePost)
	api.Get("/posts/:id", s.GetPost)

	api.Get("/comments/:id", s.GetComment)
	api.Patch("/comments/:id", middleware.AuthRequired, s.UpdateComment)
	api.Post("/comments/:id/approve", middleware.AuthRequired, s.ApproveComment)

	// Owner-scoped routes: :kind is a registered content tag.
	api.Get("/:kind/:id/comments", s.ListComments)
	api.Get("/:kind/:id/comments/tree", s.GetCommentTree)
	api.Post("/:kind/:id/comments", middleware.AuthRequired, s.CreateComment)
	api.Post("/:kind/:id/comments/free",
		middleware.RateLimit(s.redis, 5, time.Minute, "free-comment"),
		s.CreateFreeComment)

	moderation := api.Group("/moderation", middleware.AuthRequired)
	moderation.Get("/:kind/:id/comments/tree", s.GetModerationTree)
}

// HealthCheck reports service liveness.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// statusForError maps application error codes to HTTP statuses.
func statusForError(err error) int {
	switch {
	case models.IsNotFound(err):
		return fiber.StatusNotFound
	case models.IsMultipleResults(err):
		return fiber.StatusConflict
	default:
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case models.CodeValidation:
				return fiber.StatusBadRequest
			case models.CodeUnauthorized:
				return fiber.StatusForbidden
			}
		}
		return fiber.StatusInternalServerError
	}
}
