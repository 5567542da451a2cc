// Package temporal dials the Temporal frontend with tracing and structured logging attached.
package temporal

import (
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	platformobservability "github.com/ravengallery/gallery-api/internal/platform/observability"
)

// ClientConfig addresses a Temporal namespace.
type ClientConfig struct {
	Address   string
	Namespace string
	// TracerName names the tracer used by the OpenTelemetry interceptor.
	TracerName string
}

// Options builds client options with the tracing interceptor and the process logger.
func Options(cfg ClientConfig, instruments *platformobservability.Instruments) (client.Options, error) {
	address := cfg.Address
	if address == "" {
		address = client.DefaultHostPort
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = client.DefaultNamespace
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(cfg.TracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return client.Options{}, err
	}
	options := client.Options{
		HostPort:  address,
		Namespace: namespace,
		Logger:    workerlog.NewStructuredLogger(instruments.EffectiveLogger()),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return options, nil
}

// Dial connects to Temporal using Options.
func Dial(cfg ClientConfig, instruments *platformobservability.Instruments) (client.Client, error) {
	options, err := Options(cfg, instruments)
	if err != nil {
		return nil, err
	}
	return client.Dial(options)
}
