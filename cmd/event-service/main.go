package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ms-concerthall/internal/app"
	"ms-concerthall/internal/config"
	"ms-concerthall/internal/logger"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	logger, err := logger.NewLogger(cfg.Log.Dir, cfg.Service.Name, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	if envErr != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	ctx := context.Background()

	logger.Info("APP", "Starting Event Service initialization")
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("APP", fmt.Sprintf("Failed to initialize application: %v", err))
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      application.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Event Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	case err := <-serverErr:
		logger.Error("HTTP", fmt.Sprintf("HTTP server error: %v", err))
	}

	ctxShutdown, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	}
	if err := application.Close(); err != nil {
		logger.Error("APP", fmt.Sprintf("Failed to release resources: %v", err))
	}
	logger.Info("APP", "✅ Event Service shutdown complete")
}
