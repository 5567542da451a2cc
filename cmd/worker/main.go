package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	imagememory "github.com/ravengallery/gallery-api/internal/domains/images/adapters/memory"
	imagepostgres "github.com/ravengallery/gallery-api/internal/domains/images/adapters/persistence/postgres"
	imageports "github.com/ravengallery/gallery-api/internal/domains/images/ports"
	"github.com/ravengallery/gallery-api/internal/platform/migrations"
	platformobservability "github.com/ravengallery/gallery-api/internal/platform/observability"
	platformpostgres "github.com/ravengallery/gallery-api/internal/platform/postgres"
	platformtemporal "github.com/ravengallery/gallery-api/internal/platform/temporal"
	imageactivities "github.com/ravengallery/gallery-api/internal/platform/temporal/activities/images"
	imageworkflows "github.com/ravengallery/gallery-api/internal/platform/temporal/workflows/images"
)

type config struct {
	PostgresDSN       string `env:"POSTGRES_DSN"`
	TemporalAddress   string `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `env:"TEMPORAL_NAMESPACE"`
}

func main() {
	ctx := context.Background()
	const serviceName = "gallery-worker"
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse env: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildImageRepository(ctx, cfg.PostgresDSN, logger)
	defer cleanupRepo()
	activities := imageactivities.NewActivities(repo)

	clientOptions := platformtemporal.ClientConfig{
		Address:    cfg.TemporalAddress,
		Namespace:  cfg.TemporalNamespace,
		TracerName: "temporal-worker",
	}
	temporalClient, err := platformtemporal.Dial(clientOptions, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, imageworkflows.ImageRegistrationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(imageworkflows.ImageRegistrationWorkflow, workflow.RegisterOptions{Name: imageworkflows.ImageRegistrationWorkflowName})
	w.RegisterActivityWithOptions(activities.PersistImage, activity.RegisterOptions{Name: imageactivities.PersistImageActivityName})

	logger.Info("worker listening", slog.String("taskQueue", imageworkflows.ImageRegistrationTaskQueue))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildImageRepository(ctx context.Context, dsn string, logger *slog.Logger) (imageports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, dsn, logger)
	if db == nil {
		return imagememory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("worker failed to migrate postgres schema (falling back to memory)", slog.String("error", err.Error()))
		cleanup()
		return imagememory.NewRepository(), func() {}
	}
	logger.Info("worker image repository configured with postgres")
	return imagepostgres.NewRepository(db), cleanup
}
