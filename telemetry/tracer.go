// Package telemetry builds OpenTelemetry providers for hosts embedding
// the registry. The core packages only take the API types (trace.Tracer,
// metric.Meter); this package is the one place the otel SDK is wired.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// serviceName identifies registry spans in whatever backend the host
// exports to.
const serviceName = "assetkit"

// NewTracerProvider creates a TracerProvider that batches spans into the
// given exporter. The caller owns the provider and must call Shutdown.
func NewTracerProvider(exporter sdktrace.SpanExporter, logger *slog.Logger) *sdktrace.TracerProvider {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	return sdktrace.NewTracerProvider(opts...)
}

// Tracer returns the registry tracer from a provider.
func Tracer(tp *sdktrace.TracerProvider) trace.Tracer {
	return tp.Tracer(serviceName)
}
