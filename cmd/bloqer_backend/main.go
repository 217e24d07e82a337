package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/simonbravin/bloqer/internal/adapters/events"
	"github.com/simonbravin/bloqer/internal/adapters/permissions"
	"github.com/simonbravin/bloqer/internal/adapters/templates"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/core/services"
	"github.com/simonbravin/bloqer/internal/handlers"
	"github.com/simonbravin/bloqer/internal/middleware"
	"github.com/simonbravin/bloqer/internal/platform/config"
	"github.com/simonbravin/bloqer/internal/repositories/database/pgsql"
	"github.com/simonbravin/bloqer/internal/repositories/memory"
	"github.com/simonbravin/bloqer/internal/utils/validation"
	"github.com/simonbravin/bloqer/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Bloqer Budget API
// @version 1.0
// @description WBS and construction budget backend: work breakdown trees, budget versions, APU lines and markup rollups.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	catalog, err := templates.LoadYAMLCatalog(cfg.TemplateCatalogPath)
	if err != nil {
		logger.Error("Failed to load template catalog", slog.String("path", cfg.TemplateCatalogPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	publisher, closePublisher, err := setupPublisher(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize event publisher", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closePublisher()

	servicesContainer := services.NewServiceContainer(cfg, repos, permissions.NewRoleGate(), publisher, catalog)

	if err := validation.ConfigureGin(); err != nil {
		logger.Error("Failed to configure request validation", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, metrics, recovery)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		middleware.PrometheusMiddleware(),
		gin.Recovery(),
	)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter, err := middleware.NewMemoryLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(rateLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, servicesContainer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRepositories builds the configured store. For postgres it opens the
// pool and applies pending migrations first.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return portsrepo.RepositoryProvider{UnitOfWork: memory.NewStore()}, func() {}, nil
	}

	if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies every pending "up" migration.
func runMigrations(databaseURL, migrationsPath string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// setupPublisher always logs events and mirrors them to PostHog when a key is configured.
func setupPublisher(cfg *config.Config, logger *slog.Logger) (portssvc.EventPublisher, func(), error) {
	sinks := []portssvc.EventPublisher{events.NewLogPublisher(logger)}

	ph, err := events.NewPosthogPublisher(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	if err != nil {
		return nil, nil, err
	}
	if ph == nil {
		return events.NewFanout(sinks...), func() {}, nil
	}

	sinks = append(sinks, ph)
	closeFn := func() {
		if err := ph.Close(); err != nil {
			logger.Warn("Failed to flush PostHog events", slog.String("error", err.Error()))
		}
	}
	return events.NewFanout(sinks...), closeFn, nil
}
