package assetkit

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/plantfabric/assetkit/tree"
)

// Option configures a Registry.
type Option func(*config)

// config holds construction-time settings for a Registry.
type config struct {
	snapshot *tree.Snapshot
	logger   *slog.Logger
	tracer   trace.Tracer
	meter    metric.Meter
}

// WithSnapshot seeds the registry with an existing snapshot, e.g. one
// loaded through the persist package. The snapshot is repaired before
// use.
func WithSnapshot(s tree.Snapshot) Option {
	return func(c *config) {
		c.snapshot = &s
	}
}

// WithLogger sets a custom logger for the registry.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer wrapping imports and exports
// in spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter recording import counters.
func WithMeter(meter metric.Meter) Option {
	return func(c *config) {
		c.meter = meter
	}
}
