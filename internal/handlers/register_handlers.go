package handlers

import (
	"log/slog"
	"time"

	"github.com/SscSPs/salesops_app/cmd/docs"
	portssvc "github.com/SscSPs/salesops_app/internal/core/ports/services"
	"github.com/SscSPs/salesops_app/internal/middleware"
	"github.com/SscSPs/salesops_app/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.Use(corsMiddleware(cfg))

	// Add health check route
	r.GET("/health", getHealth(cfg.StoreDriver))

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.FrontendBaseURL != "" {
		corsCfg.AllowOrigins = []string{cfg.FrontendBaseURL}
	} else {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	return cors.New(corsCfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")
	if limit := rateLimiter(cfg.RateLimit); limit != nil {
		v1.Use(middleware.RateLimit(limit))
	}
	// Apply AuthMiddleware to the entire v1 group
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	RegisterAPIV1Routes(v1, services)
}

// RegisterAPIV1Routes delegates route registration to the per-entity handlers.
func RegisterAPIV1Routes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	RegisterCompanyRoutes(v1, services.Company)
	RegisterContactRoutes(v1, services.Contact)
	RegisterDealRoutes(v1, services.Deal)
	RegisterProposalRoutes(v1, services.Proposal, services.WorkOrder)
	RegisterWorkOrderRoutes(v1, services.WorkOrder)
	RegisterDeliverableRoutes(v1, services.Deliverable)
	RegisterTaskRoutes(v1, services.Task)
	RegisterTimeEntryRoutes(v1, services.TimeEntry)
	RegisterActivityRoutes(v1, services.Activity)
	RegisterRenameRoutes(v1, services.Rename)
	RegisterDashboardRoutes(v1, services.Dashboard)
}

// rateLimiter builds a per-IP limiter from a formatted rate such as "300-M".
// An empty rate disables limiting.
func rateLimiter(formatted string) *limiter.Limiter {
	if formatted == "" {
		return nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT, rate limiting disabled", slog.String("rate", formatted), slog.String("error", err.Error()))
		return nil
	}
	return limiter.New(memory.NewStore(), rate)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
