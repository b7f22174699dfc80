package handlers

import (
	"github.com/SscSPs/ohada_reporting_app/cmd/docs"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/middleware"
	"github.com/SscSPs/ohada_reporting_app/internal/platform/config"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/analytics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries the optional infrastructure shared by the route groups.
type RouteDeps struct {
	// ReportLimiter throttles report generation per client IP when set.
	ReportLimiter *limiter.Limiter
	Analytics     *analytics.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {

	// Add health check route
	r.GET("/health", getHealth)
	r.GET("/", getHome)

	// Setup API v1 routes, the cache group carries the admin auth
	setupAPIV1Routes(r, cfg, services, deps)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	v1 := r.Group("/api/v1")

	var limit gin.HandlerFunc
	if deps.ReportLimiter != nil {
		limit = middleware.RateLimit(deps.ReportLimiter)
	}
	registerReportingRoutes(v1, service.Reporting, deps.Analytics, limit)
	registerCacheRoutes(v1, service.Reporting,
		middleware.APIKeyAuth(cfg.AdminAPIKeys),
		middleware.AdminAuthMiddleware(cfg.AdminJWTSecret),
	)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
