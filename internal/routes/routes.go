package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/fiesta-frutilla/festival_cms/internal/auth"
	"github.com/fiesta-frutilla/festival_cms/internal/common"
	"github.com/fiesta-frutilla/festival_cms/internal/config"
	"github.com/fiesta-frutilla/festival_cms/internal/identity"
	"github.com/fiesta-frutilla/festival_cms/internal/infra"
	"github.com/fiesta-frutilla/festival_cms/internal/middleware"
	"github.com/fiesta-frutilla/festival_cms/internal/posts"
	"github.com/fiesta-frutilla/festival_cms/internal/siteconfig"
)

// Deps aggregates shared dependencies required to wire routes. Exactly one of
// Mongo or DB backs the stores; with neither, in-memory stores are used in
// development only.
type Deps struct {
	Cfg    config.Config
	Mongo  *mongo.Database
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

type repositories struct {
	users  identity.Repository
	posts  posts.Repository
	config siteconfig.Repository
}

// Setup prepares the stores, then configures middlewares and all routes.
// It fails instead of registering routes when the store is not ready.
func Setup(ctx context.Context, app *fiber.App, d Deps) error {
	repos, err := buildRepositories(ctx, d)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokens(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("token signer: %w", err)
	}

	identitySvc := identity.NewService(repos.users, d.Cfg.BcryptCost, d.Logger)
	if err := identitySvc.EnsureAdmin(ctx, d.Cfg.AdminEmail, d.Cfg.AdminPassword, d.Cfg.AdminName); err != nil {
		return err
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(corsMiddleware(d.Cfg.CORSOrigins))
	app.Use(limiter.New(limiter.Config{
		Max:        d.Cfg.RateLimitMax,
		Expiration: d.Cfg.RateLimitWindow,
		LimitReached: func(*fiber.Ctx) error {
			return fiber.NewError(http.StatusTooManyRequests, "too many requests, try again later")
		},
	}))
	app.Use(middleware.Audit(d.Logger))

	// Services and handlers
	authSvc := auth.NewService(repos.users, tokens, auth.ServiceConfig{
		StoreTimeout: d.Cfg.StoreTimeout,
		BcryptCost:   d.Cfg.BcryptCost,
	}, d.Logger)
	authz := auth.NewAuthorizer(tokens, repos.users, auth.Policy{
		RevalidateOnEveryRequest: d.Cfg.Revalidate,
		StoreTimeout:             d.Cfg.StoreTimeout,
	})
	authHandler := auth.NewHandler(authSvc, authz)
	postHandler := posts.NewHandler(posts.NewService(repos.posts), func(c *fiber.Ctx) string {
		if id, ok := middleware.IdentityFrom(c); ok {
			return id.Email
		}
		return ""
	})
	configHandler := siteconfig.NewHandler(siteconfig.NewService(repos.config))

	api := app.Group("/api")
	RegisterHealthRoutes(api, d)

	// Public routes
	RegisterAuthRoutes(api, authHandler, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit, d.Logger))

	// Protected routes
	jwtmw := middleware.JWTAuth(authz)
	RegisterPostRoutes(api, postHandler, jwtmw, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	RegisterConfigRoutes(api, configHandler, jwtmw)

	if d.Cfg.StaticDir != "" {
		RegisterStaticRoutes(app, d.Cfg.StaticDir)
	}

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(http.StatusNotFound).JSON(common.ErrorResponse{Error: "endpoint not found"})
	})

	return nil
}

func buildRepositories(ctx context.Context, d Deps) (repositories, error) {
	switch {
	case d.Mongo != nil:
		users := identity.NewMongoRepository(d.Mongo)
		if err := users.EnsureIndexes(ctx); err != nil {
			return repositories{}, err
		}
		postRepo := posts.NewMongoRepository(d.Mongo)
		if err := postRepo.EnsureIndexes(ctx); err != nil {
			return repositories{}, err
		}
		return repositories{users: users, posts: postRepo, config: siteconfig.NewMongoRepository(d.Mongo)}, nil
	case d.DB != nil:
		if err := infra.Migrate(ctx, d.DB); err != nil {
			return repositories{}, err
		}
		return repositories{
			users:  identity.NewPostgresRepository(d.DB),
			posts:  posts.NewPostgresRepository(d.DB),
			config: siteconfig.NewPostgresRepository(d.DB),
		}, nil
	case d.Cfg.IsDev():
		if d.Logger != nil {
			d.Logger.Warn("using in-memory stores; data is lost on restart")
		}
		return repositories{
			users:  identity.NewMemoryRepository(),
			posts:  posts.NewMemoryRepository(),
			config: siteconfig.NewMemoryRepository(),
		}, nil
	default:
		return repositories{}, fmt.Errorf("a document store is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
}

func corsMiddleware(origins []string) fiber.Handler {
	cfg := cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Request-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}
	joined := strings.Join(origins, ",")
	if joined != "" && joined != "*" {
		cfg.AllowOrigins = joined
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
