package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/identity"
	"github.com/spendwise/spendwise/internal/media"
	"github.com/spendwise/spendwise/internal/middleware"
	"github.com/spendwise/spendwise/internal/notification"
	"github.com/spendwise/spendwise/internal/transaction"
	"github.com/spendwise/spendwise/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Image uploader collaborator
	var uploader media.Uploader
	if d.Cfg.CloudinaryCloudName != "" {
		uploader = media.NewCloudinaryUploader(d.Cfg.CloudinaryCloudName, d.Cfg.CloudinaryUploadPreset)
	} else {
		uploader = media.StaticUploader{}
	}

	// Repositories, falling back to in-memory stores without a database.
	var walletRepo wallet.Repository
	var txRepo transaction.Repository
	var identityRepo identity.Repository
	if d.DB != nil {
		walletRepo = wallet.NewPostgresRepository(d.DB)
		txRepo = transaction.NewPostgresRepository(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		walletRepo = wallet.NewMemoryRepository()
		txRepo = transaction.NewMemoryRepository()
		identityRepo = identity.NewMemoryRepository()
	}

	// Services and handlers
	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(walletRepo, uploader)
	txSvc := transaction.NewService(txRepo, walletSvc, uploader, notifier)
	identitySvc := identity.NewService(identityRepo, uploader)
	authSvc := auth.NewService(d.Cfg, identityRepo)

	authHandler := auth.NewHandler(identitySvc, authSvc)
	identityHandler := identity.NewHandler(identitySvc, identityRepo)
	walletHandler := wallet.NewHandler(walletSvc)
	txHandler := transaction.NewHandler(txSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterIdentityRoutes(api, identitySvc, d.Logger)
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	RegisterCategoryRoutes(api)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
	protected := api.Group("", jwtmw, middleware.Audit(d.Logger))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", identityHandler.Me)
	protected.Put("/me", identityHandler.UpdateMe)
	RegisterWalletRoutes(protected, walletHandler, txHandler)
	RegisterTransactionRoutes(protected, txHandler)

	return nil
}
