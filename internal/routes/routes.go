package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/relief-hub/relief_hub/internal/admin"
	"github.com/relief-hub/relief_hub/internal/auth"
	"github.com/relief-hub/relief_hub/internal/cashsend"
	"github.com/relief-hub/relief_hub/internal/config"
	"github.com/relief-hub/relief_hub/internal/electricity"
	"github.com/relief-hub/relief_hub/internal/history"
	"github.com/relief-hub/relief_hub/internal/identity"
	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/middleware"
	"github.com/relief-hub/relief_hub/internal/notification"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/withdraw"
)

// BasePath is the prefix every API route lives under.
const BasePath = "/api/relief-hub"

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
	app.Use(middleware.Metrics())
	// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health and metrics
	RegisterHealthRoutes(app, d)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Storage backends
	ctx := context.Background()
	var ledgerBackend ledger.Ledger
	var identityRepo identity.Repository
	var sassaRepo sassa.Repository
	var withdrawRepo withdraw.Repository
	var cashsendRepo cashsend.Repository
	var electricityRepo electricity.Repository
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
		identityRepo = identity.NewPostgresRepository(d.DB)
		sassaRepo = sassa.NewPostgresRepository(d.DB)
		withdrawRepo = withdraw.NewPostgresRepository(d.DB)
		cashsendRepo = cashsend.NewPostgresRepository(d.DB)
		electricityRepo = electricity.NewPostgresRepository(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
		identityRepo = identity.NewMemoryRepository()
		sassaRepo = sassa.NewMemoryRepository()
		withdrawRepo = withdraw.NewMemoryRepository()
		cashsendRepo = cashsend.NewMemoryRepository()
		electricityRepo = electricity.NewMemoryRepository()
	}

	// Services
	notifier := notification.NewLoggerNotifier(d.Logger)
	identitySvc := identity.NewService(identityRepo)
	authSvc := auth.NewService(d.Cfg, identityRepo)
	sassaSvc, err := sassa.NewService(ctx, sassaRepo, ledgerBackend, notifier)
	if err != nil {
		return err
	}
	withdrawSvc, err := withdraw.NewService(ctx, ledgerBackend, sassaSvc, withdrawRepo, notifier)
	if err != nil {
		return err
	}
	cashsendSvc, err := cashsend.NewService(ctx, ledgerBackend, sassaSvc, cashsendRepo, notifier)
	if err != nil {
		return err
	}
	electricitySvc, err := electricity.NewService(ctx, ledgerBackend, sassaSvc, electricityRepo, notifier)
	if err != nil {
		return err
	}
	historySvc := history.NewService(withdrawSvc, cashsendSvc, electricitySvc, sassaSvc)

	// Handlers
	authHandler := auth.NewHandler(identitySvc, authSvc)
	sassaHandler := sassa.NewHandler(sassaSvc)
	withdrawHandler := withdraw.NewHandler(withdrawSvc)
	cashsendHandler := cashsend.NewHandler(cashsendSvc)
	electricityHandler := electricity.NewHandler(electricitySvc)
	historyHandler := history.NewHandler(historySvc)
	identityHandler := identity.NewHandler(identitySvc)
	adminHandler := admin.NewHandler(identitySvc, identityRepo)

	// API routes
	api := app.Group(BasePath)
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, identityRepo)
	protected := api.Group("", jwtmw)
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		user, err := identityRepo.FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"id":            user.ID,
			"fullName":      user.FullName,
			"email":         user.Email,
			"phone":         user.Phone,
			"role":          user.Role,
			"status":        user.Status(),
			"emailVerified": user.EmailVerified,
			"phoneVerified": user.PhoneVerified,
			"createdAt":     user.CreatedAt,
		})
	})
	protected.Post("/user/:userId/verify-email", identityHandler.VerifyEmail)
	protected.Post("/user/:userId/verify-phone", identityHandler.VerifyPhone)
	RegisterSassaRoutes(protected, sassaHandler)
	RegisterHistoryRoutes(protected, historyHandler)

	// Transaction routes replay cached responses when the client retries
	// with the same Idempotency-Key.
	transactions := protected.Group("")
	if d.Cache != nil {
		transactions.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterTransactionRoutes(transactions, withdrawHandler, cashsendHandler, electricityHandler)

	// Admin console
	adminGroup := protected.Group("", middleware.RequireAdmin())
	RegisterAdminRoutes(adminGroup, adminHandler, sassaHandler)

	return nil
}
