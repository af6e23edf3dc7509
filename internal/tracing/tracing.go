// Package tracing installs an OpenTelemetry tracer provider that exports
// spans to a writer. When tracing is disabled the global no-op provider is
// left in place and Setup returns a no-op shutdown.
package tracing

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is recorded as the service.name resource attribute.
const ServiceName = "companion"

// Shutdown flushes pending spans and stops the provider.
type Shutdown func(ctx context.Context) error

// Provider builds a tracer provider exporting to w without registering it
// globally.
func Provider(w io.Writer, version string) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", ServiceName),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	), nil
}

// Setup registers a writer-backed provider as the global tracer provider.
func Setup(w io.Writer, version string, enabled bool) (Shutdown, error) {
	if !enabled || w == nil {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := Provider(w, version)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
