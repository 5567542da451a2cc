package api

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.temporal.io/sdk/client"

	"github.com/ravengallery/gallery-api/internal/platform/objectstore"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string             `env:"PORT" envDefault:"8080"`
	PostgresDSN       string             `env:"POSTGRES_DSN"`
	TemporalAddress   string             `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string             `env:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool               `env:"TEMPORAL_DISABLED"`
	MaxUploadBytes    int64              `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	ProblemBaseURI    string             `env:"PROBLEM_BASE_URI"`
	ObjectStore       objectstore.Config `envPrefix:"MINIO_"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.PostgresDSN = strings.TrimSpace(cfg.PostgresDSN)
	if strings.TrimSpace(cfg.TemporalAddress) == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	if strings.TrimSpace(cfg.TemporalNamespace) == "" {
		cfg.TemporalNamespace = client.DefaultNamespace
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges the environment parser cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer")
	}
	if c.ObjectStore.Enabled() {
		if err := c.ObjectStore.Validate(); err != nil {
			return fmt.Errorf("MINIO_: %w", err)
		}
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}
