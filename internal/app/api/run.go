package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	galleryserver "github.com/ravengallery/gallery-api/go"
	imagememory "github.com/ravengallery/gallery-api/internal/domains/images/adapters/memory"
	imageobs "github.com/ravengallery/gallery-api/internal/domains/images/adapters/observability"
	imagepostgres "github.com/ravengallery/gallery-api/internal/domains/images/adapters/persistence/postgres"
	imageminio "github.com/ravengallery/gallery-api/internal/domains/images/adapters/storage/minio"
	imageworkflows "github.com/ravengallery/gallery-api/internal/domains/images/adapters/workflows"
	imageapp "github.com/ravengallery/gallery-api/internal/domains/images/application"
	imageports "github.com/ravengallery/gallery-api/internal/domains/images/ports"
	"github.com/ravengallery/gallery-api/internal/platform/migrations"
	"github.com/ravengallery/gallery-api/internal/platform/objectstore"
	platformobservability "github.com/ravengallery/gallery-api/internal/platform/observability"
	platformpostgres "github.com/ravengallery/gallery-api/internal/platform/postgres"
	platformtemporal "github.com/ravengallery/gallery-api/internal/platform/temporal"
)

const serviceName = "gallery-api"

// Run boots the gallery HTTP API with observability, storage, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildImageRepository(ctx, cfg, logger)
	defer cleanupRepo()
	blobs := buildBlobStore(ctx, cfg, logger)

	var registrar imageports.ImageRegistrar = imageworkflows.NewInlineImageRegistrar(repo)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, registering images inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		registrar = imageworkflows.NewTemporalImageRegistrar(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	invoker, views, err := buildDispatch(repo, blobs, registrar, instruments)
	if err != nil {
		return fmt.Errorf("failed to register image handlers: %w", err)
	}

	responder := galleryserver.NewProblemResponder(cfg.ProblemBaseURI)
	handlers := galleryserver.ApiHandleFunctions{
		ImageAPI: galleryserver.NewImageAPI(invoker, views,
			galleryserver.WithMaxUploadBytes(cfg.MaxUploadBytes),
			galleryserver.WithResponder(responder),
		),
	}

	engine := gin.New()
	engine.Use(
		otelgin.Middleware(serviceName),
		gin.Logger(),
		gin.CustomRecovery(responder.Recovery(logger)),
	)
	router := galleryserver.NewRouterWithGinEngine(engine, handlers)

	addr := cfg.Addr()
	logger.Info("gallery API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("gallery API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildDispatch registers every command and view handler once and decorates both registries with
// tracing and metrics.
func buildDispatch(repo imageports.Repository, blobs imageports.BlobStore, registrar imageports.ImageRegistrar, instruments *platformobservability.Instruments) (*imageobs.CommandInvoker, *imageobs.ViewRepository, error) {
	invoker, err := imageapp.NewCommandInvoker(imageapp.NewCommands(repo, blobs, registrar))
	if err != nil {
		return nil, nil, err
	}
	views, err := imageapp.NewViewRepository(imageapp.NewViews(repo))
	if err != nil {
		return nil, nil, err
	}
	const scope = "internal.images.application"
	opts := []imageobs.Option{
		imageobs.WithLogger(instruments.Logger),
		imageobs.WithTracer(instruments.Tracer(scope)),
		imageobs.WithMeter(instruments.Meter(scope)),
	}
	return imageobs.NewCommandInvoker(invoker, opts...), imageobs.NewViewRepository(views, opts...), nil
}

func buildImageRepository(ctx context.Context, cfg Config, logger *slog.Logger) (imageports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return imagememory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return imagememory.NewRepository(), func() {}
	}
	logger.Info("image repository configured with postgres")
	return imagepostgres.NewRepository(db), cleanup
}

func buildBlobStore(ctx context.Context, cfg Config, logger *slog.Logger) imageports.BlobStore {
	if !cfg.ObjectStore.Enabled() {
		logger.Warn("MINIO_ENDPOINT not set, keeping image bytes in memory")
		return imagememory.NewBlobStore()
	}
	store, err := connectObjectStore(ctx, cfg.ObjectStore)
	if err != nil {
		logger.Warn("object storage unavailable, keeping image bytes in memory", slog.String("error", err.Error()))
		return imagememory.NewBlobStore()
	}
	logger.Info("image blobs stored in MinIO", slog.String("bucket", cfg.ObjectStore.Bucket))
	return store
}

func connectObjectStore(ctx context.Context, cfg objectstore.Config) (*imageminio.BlobStore, error) {
	minioClient, err := objectstore.NewMinIOClient(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := objectstore.EnsureBucket(ctx, minioClient, cfg); err != nil {
		return nil, err
	}
	return imageminio.NewBlobStore(minioClient, cfg.Bucket)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	return platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:    cfg.TemporalAddress,
		Namespace:  cfg.TemporalNamespace,
		TracerName: "temporal-client",
	}, instruments)
}
