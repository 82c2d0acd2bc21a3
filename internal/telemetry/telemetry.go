// Package telemetry configures OpenTelemetry tracing for the command line programs and
// provides the traced HTTP client used to talk to the backend.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"ecoRouteClient/internal/config"
)

// ShutdownFunc flushes pending spans and releases exporter resources.
type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider according to cfg and returns it together with
// its shutdown function. With the "none" exporter a no-op provider is returned and nothing
// global is changed.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (trace.TracerProvider, ShutdownFunc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if exporter == nil {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceNameKey.String(cfg.ServiceName),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Debug("tracing enabled",
		zap.String("exporter", cfg.Exporter),
		zap.String("service", cfg.ServiceName),
	)
	return tp, tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg config.TelemetryConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case "", config.ExporterNone:
		return nil, nil
	case config.ExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout exporter: %w", err)
		}
		return exp, nil
	case config.ExporterOTLP:
		creds := credentials.NewTLS(nil)
		if cfg.Insecure {
			creds = insecure.NewCredentials()
		}
		exp, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithTLSCredentials(creds),
			otlptracegrpc.WithDialOption(grpc.WithUserAgent(cfg.ServiceName)),
		)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown telemetry exporter %q", cfg.Exporter)
	}
}

// NewHTTPClient returns an http.Client whose transport records a client span per request
// and propagates trace context to the backend. A nil provider uses the global one.
func NewHTTPClient(tp trace.TracerProvider, timeout time.Duration) *http.Client {
	var opts []otelhttp.Option
	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	}
	opts = append(opts, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return r.Method + " " + r.URL.Path
	}))

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{
		Transport: otelhttp.NewTransport(transport, opts...),
		Timeout:   timeout,
	}
}
