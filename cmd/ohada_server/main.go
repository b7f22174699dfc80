package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/ohada_reporting_app/internal/handlers"
	"github.com/SscSPs/ohada_reporting_app/internal/middleware"
	"github.com/SscSPs/ohada_reporting_app/internal/platform/app"
	"github.com/SscSPs/ohada_reporting_app/internal/platform/config"
	"github.com/SscSPs/ohada_reporting_app/internal/utils/analytics"
	"github.com/gin-gonic/gin"
)

// @title OHADA Reporting API
// @version 1.0
// @description Ledger and trial balance workbooks computed from SAP extracts, with a signature-keyed report cache.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := app.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := handlers.RegisterValidators(); err != nil {
		logger.Error("Failed to register request validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	application, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer application.Close()

	posthogClient := analytics.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	deps := handlers.RouteDeps{Analytics: posthogClient}
	if cfg.ReportRateLimit != "" {
		// counters are shared through redis when the cache already lives there
		deps.ReportLimiter, err = middleware.NewIPLimiter(cfg.ReportRateLimit, application.Redis)
		if err != nil {
			logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.PosthogMiddleware(posthogClient),
	)

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, application.Services, deps)

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("cache_backend", cfg.CacheBackend),
		slog.String("output_dir", cfg.OutputDir))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
