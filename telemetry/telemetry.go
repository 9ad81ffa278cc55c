// Package telemetry wires the OpenTelemetry SDK for the agent runtime.
//
// Init installs a stdout trace exporter and returns a shutdown function; the
// runtime opens spans around message dispatch and goal execution which become
// visible as soon as Init has run. Metrics are not handled here, they are
// served by the metrics package.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies spans produced by this module.
const instrumentationName = "github.com/hupe1980/agentcore"

// ShutdownFunc flushes and releases telemetry resources.
type ShutdownFunc func(context.Context) error

// Options configures the telemetry setup.
type Options struct {
	// PrettyPrint renders exported spans as indented JSON.
	PrettyPrint bool

	// Writer receives exported spans. Nil means stdout.
	Writer io.Writer

	// BatchTimeout caps how long spans are buffered before export.
	BatchTimeout time.Duration
}

// Init initializes the OpenTelemetry SDK with a stdout trace exporter and
// installs it as the global tracer provider.
func Init(serviceName, version string, optFns ...func(o *Options)) (ShutdownFunc, error) {
	opts := Options{
		PrettyPrint:  true,
		BatchTimeout: time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporterOpts := []stdouttrace.Option{}
	if opts.PrettyPrint {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}

	if opts.Writer != nil {
		exporterOpts = append(exporterOpts, stdouttrace.WithWriter(opts.Writer))
	}

	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(opts.BatchTimeout)),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Tracer returns the module tracer from the global provider. Before Init it
// yields no-op spans, so instrumented code paths need no guarding.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan opens a span with the given name and attributes.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
