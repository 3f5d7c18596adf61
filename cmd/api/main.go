package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"doclib/docs"
	"doclib/internal/auth"
	"doclib/internal/cache"
	"doclib/internal/config"
	"doclib/internal/database"
	"doclib/internal/database/migration"
	handlers "doclib/internal/http/handler"
	"doclib/internal/http/middleware"
	"doclib/internal/logging"
	"doclib/internal/otel"
	"doclib/internal/repository/postgres"
	"doclib/internal/service"
	"doclib/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Document Library API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	bootLog := logging.New(os.Stderr, time.UTC, "info")
	if err := cfg.Validate(); err != nil {
		bootLog.WithError(err).Fatal("invalid_config")
	}
	loc, err := cfg.Location()
	if err != nil {
		bootLog.WithError(err).Fatal("invalid_config")
	}
	maxUpload, err := cfg.MaxUploadBytes()
	if err != nil {
		bootLog.WithError(err).Fatal("invalid_config")
	}

	logger := logging.New(os.Stdout, loc, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, logger)
	if err != nil {
		logger.WithError(err).Fatal("tracing_init_failed")
	}

	db, err := database.NewPostgres(ctx, cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		logger.WithError(err).Fatal("failed to migrate database")
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize object storage")
	}

	rdb := cache.NewRedis(cfg.Redis, logger)
	defer rdb.Close()
	if err := rdb.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}

	docRepo := postgres.NewDocumentPostgres(db)
	subjectRepo := postgres.NewSubjectPostgres(db)
	userRepo := postgres.NewUserPostgres(db)

	svc := handlers.Services{
		Documents: service.NewDocumentService(objStore, docRepo, subjectRepo, logger, cfg.SignedURLTTL()),
		Subjects:  service.NewSubjectService(subjectRepo, docRepo, logger),
		Auth: service.NewAuthService(
			userRepo,
			auth.NewHasher(),
			auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL()),
			auth.NewBlacklist(rdb, ""),
			logger,
		),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.WithError(err).Fatal("failed to register metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             int(maxUpload),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.Logger(logger))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, db, svc)

	go func() {
		<-ctx.Done()
		logger.Info("shutdown_started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.WithError(err).Error("http_shutdown_failed")
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.WithError(err).Error("tracing_shutdown_failed")
		}
	}()

	addr := ":" + cfg.Port
	logger.WithFields(logrus.Fields{"addr": addr, "max_upload_bytes": maxUpload}).Info("server_starting")

	if err := app.Listen(addr); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
	logger.Info("server_stopped")
}
