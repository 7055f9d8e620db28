package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Options configures the exporter and resource of a TracerProvider.
type Options struct {
	Enabled        bool
	Endpoint       string
	ServiceName    string
	ServiceVersion string
	SampleRatio    float64
}

// TracerProvider holds the configured OpenTelemetry TracerProvider.
type TracerProvider struct {
	provider *trace.TracerProvider
	logger   *slog.Logger
}

// NewTracerProvider initializes and registers the global TracerProvider.
// When tracing is disabled the global no-op provider is left in place and
// the returned cleanup is a no-op. The cleanup must be called on shutdown.
func NewTracerProvider(ctx context.Context, opts Options, logger *slog.Logger) (*TracerProvider, func(), error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !opts.Enabled {
		logger.Info("tracing disabled")
		return &TracerProvider{logger: logger}, func() {}, nil
	}

	logger.Info("Initializing OpenTelemetry Tracer", "service", opts.ServiceName, "collector", opts.Endpoint)

	conn, err := grpc.NewClient(
		opts.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		logger.Error("Failed to create gRPC connection to collector", slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		logger.Error("Failed to create OTLP trace exporter", slog.Any("error", err))
		conn.Close()
		return nil, nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(opts.ServiceVersion),
		semconv.ServiceInstanceID(os.Getenv("HOSTNAME")),
	)

	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(opts.SampleRatio))),
		trace.WithResource(res),
		trace.WithSpanProcessor(trace.NewBatchSpanProcessor(exporter)),
	)
	otel.SetTracerProvider(tp)

	logger.Info("TracerProvider initialized", slog.String("service", opts.ServiceName))

	cleanup := func() {
		logger.Info("Shutting down TracerProvider")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Failed to shutdown TracerProvider", slog.Any("error", err))
		} else {
			logger.Info("TracerProvider shut down successfully")
		}

		if err := conn.Close(); err != nil {
			logger.Error("Failed to close gRPC connection", slog.Any("error", err))
		}
	}

	return &TracerProvider{provider: tp, logger: logger}, cleanup, nil
}

// Provider returns the underlying provider, nil when tracing is disabled.
func (t *TracerProvider) Provider() *trace.TracerProvider {
	return t.provider
}
