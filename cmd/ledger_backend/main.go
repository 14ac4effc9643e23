package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/logistics_ledger/internal/core/services"
	"github.com/SscSPs/logistics_ledger/internal/dto"
	"github.com/SscSPs/logistics_ledger/internal/handlers"
	"github.com/SscSPs/logistics_ledger/internal/middleware"
	"github.com/SscSPs/logistics_ledger/internal/observability/metrics"
	"github.com/SscSPs/logistics_ledger/internal/platform/config"
	"github.com/SscSPs/logistics_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/logistics_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

// @title Logistics Ledger API
// @version 1.0
// @description Double-entry ledger, payroll and cost allocation for a logistics operator.

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
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
	applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
	if err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			logger.Error("Failed to register validators", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ledgerMetrics := metrics.Ledger()

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.MetricsMiddleware(ledgerMetrics))

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}
	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(rateLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewContainer(repos, cfg, ledgerMetrics)
	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("base_currency", cfg.BaseCurrency))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
