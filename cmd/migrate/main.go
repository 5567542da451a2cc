// Command migrate prepares the gallery schema and, when configured, the image bucket.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ravengallery/gallery-api/internal/platform/migrations"
	"github.com/ravengallery/gallery-api/internal/platform/objectstore"
	platformpostgres "github.com/ravengallery/gallery-api/internal/platform/postgres"
)

type config struct {
	PostgresDSN string             `env:"POSTGRES_DSN,required"`
	ObjectStore objectstore.Config `envPrefix:"MINIO_"`
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse env: %v", err)
	}
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("postgres connection failed; cannot migrate")
	}
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	logger.Info("schema migrated")

	if !cfg.ObjectStore.Enabled() {
		return
	}
	client, err := objectstore.NewMinIOClient(cfg.ObjectStore)
	if err != nil {
		log.Fatalf("failed to configure object storage: %v", err)
	}
	if err := objectstore.EnsureBucket(ctx, client, cfg.ObjectStore); err != nil {
		log.Fatalf("failed to prepare bucket: %v", err)
	}
	logger.Info("bucket ready", slog.String("bucket", cfg.ObjectStore.Bucket))
}
