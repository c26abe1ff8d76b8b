// Package server contains the HTTP handlers and route wiring for the
// application's REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orbit/internal/cache"
	"orbit/internal/config"
	"orbit/internal/database"
	"orbit/internal/middleware"
	"orbit/internal/models"
	"orbit/internal/observability"
	"orbit/internal/policy"
	"orbit/internal/repository"
	"orbit/internal/service"
	"orbit/internal/token"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// claimsLocalKey is the Fiber locals key under which AuthRequired stores
// the verified claims for the remainder of the request.
const claimsLocalKey = "claims"

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	codec          *token.Codec
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	engagementRepo repository.EngagementRepository
	followRepo     repository.FollowRepository

	postService       *service.PostService
	engagementService *service.EngagementService
	userService       *service.UserService
}

// NewServer creates a server instance, establishing its own database and
// Redis connections from the configuration.
func NewServer(cfg *config.Config, codec *token.Codec) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, codec, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, codec *token.Codec, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		codec:          codec,
		promMiddleware: observability.InitMetrics("orbit-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		engagementRepo: repository.NewEngagementRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}
	s.postService = service.NewPostService(s.postRepo, s.followRepo)
	s.engagementService = service.NewEngagementService(s.engagementRepo, s.postRepo)
	s.userService = service.NewUserService(s.userRepo, s.followRepo)
	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Public key discovery
	app.Get("/.well-known/jwks.json", s.JWKS)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public post routes. Private and followers-only posts require a valid
	// token; OptionalAuth attaches claims when one is presented.
	publicPosts := api.Group("/posts", s.OptionalAuth())
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/:id", s.GetPost)

	// Public user routes
	publicUsers := api.Group("/users")
	publicUsers.Get("/:id/profile", s.GetUserProfile)
	publicUsers.Get("/:id/followers", s.GetFollowers)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	posts := protected.Group("/posts")
	posts.Post("/", s.CreatePost)
	// Specific /:id/:resource routes before generic /:id routes
	posts.Post("/:id/like", s.LikePost)
	posts.Post("/:id/comment", s.CreateComment)
	posts.Patch("/:id/share", s.TierRequired(models.TierPremium), s.SharePost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	users := protected.Group("/users")
	users.Patch("/profile", s.UpdateProfile)
	users.Patch("/:id/follow", s.ToggleFollow)
	users.Delete("/account", s.DeleteAccount)
}

// Shutdown releases server-held resources: the Redis client and the
// underlying SQL connection pool.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// JWKS serves the public key discovery document.
func (s *Server) JWKS(c *fiber.Ctx) error {
	return c.JSON(s.codec.JWKS())
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; rate limits fail open without it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It extracts the
// bearer token, verifies it, and attaches the claims to the request scope.
// Claims never outlive the request.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Missing or malformed authorization header"))
		}

		claims, err := s.codec.Verify(tokenString)
		if err != nil {
			observability.TokenVerifications.WithLabelValues(verifyOutcome(err)).Inc()
			// Expired, malformed, and bad-signature tokens are deliberately
			// indistinguishable to the caller.
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}
		observability.TokenVerifications.WithLabelValues("ok").Inc()

		c.Locals(claimsLocalKey, claims)
		c.Locals("userID", claims.UserID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// OptionalAuth attaches claims when a valid bearer token is presented but
// never rejects. Requests with no or invalid tokens proceed anonymously.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := s.codec.Verify(tokenString); err == nil {
				c.Locals(claimsLocalKey, claims)
				c.Locals("userID", claims.UserID)
				ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID)
				c.SetUserContext(ctx)
			}
		}
		return c.Next()
	}
}

// TierRequired returns middleware rejecting callers below min with 403.
// Must be placed after AuthRequired so claims are available.
func (s *Server) TierRequired(min models.UserTier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.RequireTier(s.claims(c), min); err != nil {
			return models.RespondError(c, err)
		}
		return c.Next()
	}
}

// RoleRequired returns middleware rejecting callers whose role does not
// exactly match role. Roles are orthogonal to tiers.
func (s *Server) RoleRequired(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := policy.RequireRole(s.claims(c), role); err != nil {
			return models.RespondError(c, err)
		}
		return c.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// verifyOutcome labels a verification failure for metrics.
func verifyOutcome(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
