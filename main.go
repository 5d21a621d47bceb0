package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Kenil818282/caratbridge-secret-finder1/config"
	"github.com/Kenil818282/caratbridge-secret-finder1/handler"
	"github.com/Kenil818282/caratbridge-secret-finder1/middleware"
	"github.com/Kenil818282/caratbridge-secret-finder1/pkg/logger"
	"github.com/Kenil818282/caratbridge-secret-finder1/service"
)

func main() {
	// Local development secrets; ignored when the file is absent
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	store, err := service.OpenBolt(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open lead store", "error", err, "path", cfg.Store.Path)
		os.Exit(1)
	}
	defer store.Close()

	source := service.NewApifyClient(&cfg.Apify)
	if !source.Configured() {
		slog.Warn("APIFY_TOKEN not set, scans will fail until it is configured")
	}

	var notifier service.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = service.NewWebhookNotifier(&cfg.Notify)
	} else {
		slog.Warn("no notification webhook configured, new leads will only be stored")
	}

	scanner := service.NewScanner(store, source, notifier, &cfg.Scan)

	authHandler := handler.NewAuthHandler(cfg)
	monitorHandler := handler.NewMonitorHandler(store, scanner)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(100, time.Minute))
	router.Use(middleware.SessionGate(&cfg.Auth))

	// Dashboard static files
	staticDir := "./web"
	router.StaticFile("/", staticDir+"/index.html")
	router.StaticFile("/login", staticDir+"/login.html")
	router.StaticFile("/app.js", staticDir+"/app.js")
	router.StaticFile("/styles.css", staticDir+"/styles.css")

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "ok",
				"timestamp": time.Now().Format(time.RFC3339),
			})
		})
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/monitor", monitorHandler.Handle)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute, // a full scan can take a while
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
