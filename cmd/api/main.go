package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ocean-tracker/internal/core/config"
	"ocean-tracker/internal/core/logger"
	"ocean-tracker/internal/core/server"
	shipmenthandler "ocean-tracker/internal/features/shipments/handler"
	"ocean-tracker/internal/wire"

	"go.uber.org/zap"
)

// @title OceanTracker API
// @version 1.0
// @description Shipment tracking backend: sender requests, driver pickups and handovers, recipient confirmations and public tracking.
// @contact.name API Support
// @contact.email support@oceantracker.lk
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store", cfg.Store.Driver),
		zap.String("events_sink", cfg.Events.Sink),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := wire.Build(ctx, cfg)
	if err != nil {
		l.Fatal("Failed to initialize dependencies", zap.Error(err))
	}

	srv := server.New(cfg)
	for name, check := range container.Checks {
		srv.AddHealthCheck(name, check)
	}

	// Register Routes
	shipmentHdl := shipmenthandler.NewShipmentHandler(container.Service)
	shipmentHdl.RegisterRoutes(srv.App, cfg.Auth.JWTSecret)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("Server failed to start", zap.Error(err))
		}
	case <-ctx.Done():
		l.Info("Shutdown signal received")
		if err := srv.Shutdown(10 * time.Second); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := container.Close(closeCtx); err != nil {
		l.Error("Failed to close dependencies", zap.Error(err))
	}
	l.Info("Application stopped")
}
