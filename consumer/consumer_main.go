package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-cloudlet-service/config"
	"github.com/tnqbao/gau-cloudlet-service/consumer/worker"
	infraPkg "github.com/tnqbao/gau-cloudlet-service/infra"
	"github.com/tnqbao/gau-cloudlet-service/repository"
	"github.com/tnqbao/gau-cloudlet-service/service"
)

func main() {
	err := godotenv.Load("../staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()

	// Initialize context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetry, err := infraPkg.InitTelemetry(ctx, cfg.EnvConfig)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	reconciler := service.NewReconciler(
		repo.FileRepo,
		repo.FolderRepo,
		infra.Storage,
		infra.Logger,
		cfg.EnvConfig.Reconcile.OrphanGrace,
	)

	reconcileConsumer := worker.NewReconcileConsumer(infra.RabbitMQ.Channel, infra, reconciler, cfg.EnvConfig.Reconcile.Interval)
	if err := reconcileConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Reconcile consumer: %v", err)
		log.Fatalf("Failed to start Reconcile consumer: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	if err := infra.RabbitMQ.Close(); err != nil {
		log.Printf("RabbitMQ close error: %v", err)
	}
	if err := telemetry.Shutdown(context.Background()); err != nil {
		log.Printf("Telemetry shutdown error: %v", err)
	}

	infra.Logger.InfoWithContextf(ctx, "Consumer exited properly")
}
