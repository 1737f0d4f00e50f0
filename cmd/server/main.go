package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-assistant-go/internal/config"
	"github.com/campus-assistant-go/internal/handlers"
	"github.com/campus-assistant-go/internal/i18n"
	"github.com/campus-assistant-go/internal/middleware"
	"github.com/campus-assistant-go/internal/services/ai"
	"github.com/campus-assistant-go/internal/services/auth"
	"github.com/campus-assistant-go/internal/services/cache"
	"github.com/campus-assistant-go/internal/services/chat"
	"github.com/campus-assistant-go/internal/services/dashboard"
	"github.com/campus-assistant-go/internal/services/storage"
	"github.com/campus-assistant-go/internal/services/translation"
	"github.com/campus-assistant-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	// Load .env file if exists
	if err := godotenv.Load(*envFile); err != nil {
		// It's okay if .env doesn't exist
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	// Load configuration. A missing AI credential fails here, before any
	// server starts.
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting campus assistant service...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage
	storageManager, err := storage.NewManager(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize storage")
	}

	// Initialize AI gateway
	gateway, err := ai.NewGateway(&cfg.AI, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize AI gateway")
	}

	// Initialize i18n
	localizer, err := i18n.NewLocalizer(&cfg.I18n)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize i18n")
	}

	// Initialize services
	cacheService := cache.NewCache(cfg, log)
	rateLimiter := middleware.NewRateLimiter(cfg, log)
	authService := auth.NewService(&cfg.Auth, storageManager, log)
	sessionManager := chat.NewManager(storageManager, cfg.Assistant.Greeting, log)
	translationManager := translation.NewManager(storageManager, log)
	dashboardService := dashboard.NewService(ctx, storageManager, cfg.Assistant.BaseLanguage, cfg.Assistant.SeedData, log)

	// Initialize metrics
	metrics := middleware.NewMetrics()

	// Start metrics server if enabled
	if cfg.Monitoring.Metrics.Enabled {
		go func() {
			log.WithFields(logrus.Fields{
				"port": cfg.Monitoring.Metrics.Port,
				"path": cfg.Monitoring.Metrics.Path,
			}).Info("Starting metrics server")

			if err := middleware.StartMetricsServer(cfg.Monitoring.Metrics.Port, cfg.Monitoring.Metrics.Path); err != nil {
				log.WithError(err).Error("Metrics server failed")
			}
		}()
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	chatHandler := handlers.NewChatHandler(
		sessionManager,
		dashboardService,
		gateway,
		cacheService,
		storageManager,
		rateLimiter,
		localizer,
		metrics,
		log,
	)
	translationHandler := handlers.NewTranslationHandler(
		translationManager,
		gateway,
		rateLimiter,
		localizer,
		metrics,
		log,
	)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, log)

	router := handlers.NewRouter(
		authHandler,
		chatHandler,
		translationHandler,
		dashboardHandler,
		authService,
		metrics,
		log,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("API server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("API server failed")
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	cancel()
	log.Info("Service stopped")
}
