package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/leadchat/leadchat/internal/api"
	"github.com/leadchat/leadchat/internal/config"
	"github.com/leadchat/leadchat/internal/llm"
	"github.com/leadchat/leadchat/internal/notify"
	"github.com/leadchat/leadchat/internal/repository"
	"github.com/leadchat/leadchat/internal/service"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	// Initialize the generation backend client
	generator := llm.New(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.Business, llm.Options{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	// Initialize the notifier
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notify.Enabled {
		notifier = notify.NewMailer(
			cfg.Notify.Host,
			cfg.Notify.Port,
			cfg.Notify.Username,
			cfg.Notify.Password,
			cfg.Notify.From,
			cfg.Notify.To,
			cfg.Business.Name,
		)
	}

	// Initialize the conversation engine and services
	orchestrator := service.NewOrchestrator(generator, sessionRepo, service.OrchestratorOptions{
		LeadCaptureEnabled: cfg.Widget.Features.LeadCapture,
		LeadPromptDelay:    cfg.Widget.LeadPromptDelay,
		MaxMessageLength:   cfg.Widget.MaxMessageLength,
	}, logger)

	leadService := service.NewLeadService(leadRepo, orchestrator, notifier, cfg.Widget.Features, logger)
	widgetService := service.NewWidgetService(cfg, orchestrator, leadService)
	adminService := service.NewAdminService(sessionRepo, leadRepo)

	// Setup router
	router := api.SetupRouter(widgetService, adminService, api.RouterConfig{
		APIKey:       cfg.Admin.APIKey,
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting leadchat server",
			zap.String("address", cfg.Address()),
			zap.String("base_url", cfg.Server.BaseURL),
			zap.String("business", cfg.Business.Name),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
