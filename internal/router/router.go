package router

import (
	"fmt"
	"time"

	"github.com/anonto42/yatube/backend/internal/cache"
	"github.com/anonto42/yatube/backend/internal/handlers"
	"github.com/anonto42/yatube/backend/internal/middleware"
	"github.com/anonto42/yatube/backend/internal/repositories"
	"github.com/anonto42/yatube/backend/internal/services"
	"github.com/anonto42/yatube/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Postgres *gorm.DB
	// Images stores post images; nil disables uploads.
	Images repositories.BlobStore
	// Firebase verifies Firebase ID tokens; nil disables Firebase login.
	Firebase middleware.TokenVerifier

	AuthProvider string // "jwt" (default) or "firebase"
	JWTSecret    string
	TokenTTL     time.Duration
	Limits       services.Limits
	FeedCacheTTL time.Duration
	// Now overrides the clock of the feed cache.
	Now func() time.Time
}

// SetupRoutes migrates the schema, wires repositories and services and
// registers every route on e.
func SetupRoutes(e *echo.Echo, d Deps) error {
	if err := repositories.Migrate(d.Postgres); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	zap.L().Info("PostgreSQL auto-migrations completed")

	if e.Validator == nil {
		e.Validator = validators.NewValidator()
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(d.Postgres)
	groupRepo := repositories.NewPostgresGroupRepository(d.Postgres)
	postRepo := repositories.NewPostgresPostRepository(d.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(d.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(d.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(d.Postgres)

	// --- Initialize Services ---
	limits := d.Limits
	if limits == (services.Limits{}) {
		limits = services.DefaultLimits()
	}
	notifications := services.NewNotificationService(notificationRepo, limits.PageSize)
	blog := services.NewBlogService(services.Repositories{
		Users:    userRepo,
		Groups:   groupRepo,
		Posts:    postRepo,
		Comments: commentRepo,
		Follows:  followRepo,
	}, d.Images, notifications, limits)

	ttl := d.FeedCacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	var cacheOpts []cache.Option
	if d.Now != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(d.Now))
	}
	indexCache := cache.New(ttl, cacheOpts...)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	handlers.NewMediaHandler(blog).RegisterMediaRoutes(e)

	// --- Auth routes ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(userRepo, d.Firebase, d.JWTSecret, d.TokenTTL).RegisterAuthRoutes(authGroup)

	// --- API routes: identity is optional, mutations require it ---
	api := e.Group("/api/v1")
	api.Use(identityMiddleware(d, userRepo))

	handlers.NewFeedHandler(blog, indexCache.Middleware()).RegisterFeedRoutes(api)
	handlers.NewPostHandler(blog).RegisterPostRoutes(api)
	handlers.NewCommentHandler(blog).RegisterCommentRoutes(api)
	handlers.NewFollowHandler(blog).RegisterFollowRoutes(api)
	handlers.NewGroupHandler(blog).RegisterGroupRoutes(api)
	handlers.NewUserHandler(userRepo, blog).RegisterAccountRoutes(api)
	handlers.NewNotificationHandler(notifications, userRepo).RegisterNotificationRoutes(api)

	zap.L().Info("all routes configured",
		zap.String("auth_provider", authProvider(d)),
		zap.Duration("feed_cache_ttl", ttl),
		zap.Bool("images", d.Images != nil))
	return nil
}

func authProvider(d Deps) string {
	if d.AuthProvider == "firebase" && d.Firebase != nil {
		return "firebase"
	}
	return "jwt"
}

func identityMiddleware(d Deps, users middleware.UserLookup) echo.MiddlewareFunc {
	if authProvider(d) == "firebase" {
		return middleware.FirebaseAuthMiddleware(d.Firebase, users)
	}
	if d.AuthProvider == "firebase" {
		zap.L().Warn("AUTH_PROVIDER=firebase without Firebase credentials, falling back to jwt")
	}
	return middleware.JWTAuthMiddleware(d.JWTSecret, users)
}
