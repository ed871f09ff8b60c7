package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/SscSPs/salesops_app/internal/core/services"
	"github.com/SscSPs/salesops_app/internal/handlers"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/SscSPs/salesops_app/internal/platform/config"
	"github.com/SscSPs/salesops_app/internal/repositories/cache"
	"github.com/SscSPs/salesops_app/internal/repositories/database/memory"
	"github.com/SscSPs/salesops_app/internal/repositories/database/mongodb"
	"github.com/SscSPs/salesops_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/salesops_app/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title SalesOps Backend API
// @version 1.0
// @description CRM and delivery tracking with derived totals, cached names and an activity ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dashboardCache, closeCache := newDashboardCache(ctx, cfg, logger)
	defer closeCache()

	repos, closeStore, err := newRepositoryProvider(ctx, cfg, logger, dashboardCache)
	if err != nil {
		logger.Error("Failed to initialize document store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newRepositoryProvider opens the configured document store. The returned
// func releases its connections.
func newRepositoryProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger, dashboardCache portsrepo.Cache) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool, cfg.BatchMaxOps, dashboardCache), func() { database.ClosePgxPool(dbPool) }, nil

	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		client, db, err := mongodb.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("MongoDB connection established.", slog.String("database", cfg.MongoDB))
		store := mongodb.NewDocumentStore(client, db, mongodb.WithMaxBatchOps(cfg.BatchMaxOps))
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("Error disconnecting from MongoDB", slog.String("error", err.Error()))
			}
		}
		return portsrepo.RepositoryProvider{Store: store, Cache: dashboardCache}, closeFn, nil

	case config.StoreMemory:
		logger.Warn("Using the in-memory document store; data is lost on restart")
		store := memory.NewStore(memory.WithMaxBatchOps(cfg.BatchMaxOps))
		return portsrepo.RepositoryProvider{Store: store, Cache: dashboardCache}, func() {}, nil
	}
	return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// newDashboardCache connects to redis when configured and falls back to a
// no-op cache otherwise. An unreachable server only logs a warning.
func newDashboardCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewNoop(), func() {}
	}
	redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("Redis unreachable, dashboard cache disabled", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		_ = redisCache.Close()
		return cache.NewNoop(), func() {}
	}
	logger.Info("Dashboard cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.DashboardCacheTTL))
	return redisCache, func() { _ = redisCache.Close() }
}
