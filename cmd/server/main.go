package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bankacem/ExtensionTo-CMS/internal/config"
	"github.com/bankacem/ExtensionTo-CMS/internal/handler"
	"github.com/bankacem/ExtensionTo-CMS/internal/infrastructure/database"
	"github.com/bankacem/ExtensionTo-CMS/internal/logger"
	"github.com/bankacem/ExtensionTo-CMS/internal/metrics"
	"github.com/bankacem/ExtensionTo-CMS/internal/middleware"
	"github.com/bankacem/ExtensionTo-CMS/internal/repository"
	"github.com/bankacem/ExtensionTo-CMS/internal/service"
	"github.com/bankacem/ExtensionTo-CMS/internal/sharding"
	"github.com/bankacem/ExtensionTo-CMS/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration",
			slog.String("error", err.Error()))
	}

	// Connect to every shard. DSN order defines shard indexes, so the pools
	// come back in the same order the DSNs were configured in.
	pools, err := database.NewShardPools(context.Background(), cfg.ShardDSNs, database.PoolConfig{
		MaxConns:          cfg.DBMaxConns,
		MinConns:          cfg.DBMinConns,
		MaxConnLifetime:   cfg.DBMaxConnLifetime,
		MaxConnIdleTime:   cfg.DBMaxConnIdleTime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
	})
	if err != nil {
		logger.Fatal("Failed to connect to shards",
			slog.String("error", err.Error()))
	}

	shards, err := sharding.NewShardSet(pools, cfg.ShardQueryTimeout)
	if err != nil {
		logger.Fatal("Failed to build shard set",
			slog.String("error", err.Error()))
	}
	defer shards.Close()

	logger.Info("Connected to shards",
		slog.Int("count", shards.Len()))

	// Start database pool metrics collector
	poolStatsCollector := metrics.NewPoolStatsCollector(pools)
	poolStatsCollector.Start(15 * time.Second)
	defer poolStatsCollector.Stop()

	// Initialize repositories
	postRepo := repository.NewShardedPostRepository(shards)
	extensionRepo := repository.NewPinnedExtensionRepository(shards)

	// Initialize validator
	v := validator.NewValidator()

	// Initialize services
	postService := service.NewPostService(postRepo, v, cfg.BaseURL)

	// Initialize handlers
	postHandler := handler.NewPostHandler(postService)
	extensionHandler := handler.NewExtensionHandler(extensionRepo, v)
	seoHandler := handler.NewSEOHandler(postService)
	healthHandler := handler.NewHealthHandler(shards)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(gin.Logger())

	// Health and metrics endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	router.GET("/posts", postHandler.ListPosts)
	router.GET("/posts/:slug", postHandler.GetPost)
	router.GET("/extensions", extensionHandler.ListExtensions)
	router.GET("/sitemap.xml", seoHandler.Sitemap)
	router.GET("/robots.txt", seoHandler.Robots)

	// Admin routes, token protected
	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.AdminToken))
	{
		admin.GET("/posts", postHandler.ListAllPosts)
		admin.POST("/posts", postHandler.CreatePost)
		admin.PUT("/posts/:id", postHandler.UpdatePost)
		admin.DELETE("/posts/:id", postHandler.DeletePost)

		admin.POST("/extensions", extensionHandler.CreateExtension)
		admin.PUT("/extensions/:id", extensionHandler.UpdateExtension)
		admin.DELETE("/extensions/:id", extensionHandler.DeleteExtension)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			slog.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server",
				slog.String("error", err.Error()))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error",
			slog.String("error", err.Error()))
	}

	logger.Info("Server exited")
}
