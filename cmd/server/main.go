// @title Price Tracker API
// @version 1.0
// @description Competitor price tracking for refurbished business computers.
// @BasePath /
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"github.com/refurbtrack/price-tracker/config"
	_ "github.com/refurbtrack/price-tracker/docs"
	"github.com/refurbtrack/price-tracker/internal/app"
	"github.com/refurbtrack/price-tracker/internal/handlers"
	"github.com/refurbtrack/price-tracker/internal/middleware"
	"github.com/refurbtrack/price-tracker/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting price tracker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.ConfigFromEnv())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := app.New(cfg, registry, *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to assemble application")
	}

	router := buildRouter(cfg, a, registry, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Server forced to shutdown")
		}
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logger.Info().Msg("Server exited")
}

func buildRouter(cfg *config.Config, a *app.App, registry *prometheus.Registry, logger *zerolog.Logger) *gin.Engine {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(*logger))

	h := handlers.New(a.Store, a.Backups, a.Pipeline, *logger)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		BurstSize:         cfg.API.Burst,
	}))
	{
		api.GET("/data", h.GetData)
		api.GET("/data/:competitor", h.GetCompetitor)
		api.GET("/multi-site", h.GetMultiSite)
		api.GET("/backups", h.ListBackups)
		api.POST("/backups/:name/restore", h.RestoreBackup)

		// Workbook rendering and on-demand scrapes are expensive; they get
		// a tighter shared budget on top of the per-IP limit.
		heavy := api.Group("")
		heavy.Use(middleware.HeavyEndpointRateLimitMiddleware(1, 2))
		{
			heavy.GET("/export/csv", h.ExportCSV)
			heavy.GET("/export/xlsx", h.ExportXLSX)
			heavy.POST("/scrape/:competitor", h.TriggerScrape)
		}
	}

	return router
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "price-tracker").Logger()
	return &logger
}
