package tracing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/healthforge/cdssandbox/component"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var _ component.Lifecycle = (*Component)(nil)

const defaultServiceName = "cds-sandbox"

type Config struct {
	OTLPEndpoint   string `koanf:"otlpendpoint"`
	Insecure       bool   `koanf:"insecure"`
	ServiceName    string `koanf:"servicename"`
	ServiceVersion string
}

func DefaultConfig() Config {
	return Config{
		Insecure:    true,
		ServiceName: defaultServiceName,
	}
}

// Component wires OpenTelemetry tracing and log export. When no OTLP endpoint
// is configured it is a no-op.
type Component struct {
	config         Config
	tracerProvider *trace.TracerProvider
	loggerProvider *log.LoggerProvider
	shutdownFuncs  []func(context.Context) error
}

func New(cfg Config) *Component {
	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}
	return &Component{config: cfg}
}

func (c *Component) Start() error {
	if c.config.OTLPEndpoint == "" {
		slog.Info("No OTLP endpoint configured, tracing disabled")
		return nil
	}

	ctx := context.Background()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(c.config.ServiceName),
			semconv.ServiceVersionKey.String(c.config.ServiceVersion),
		),
	)
	if err != nil {
		return err
	}

	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(c.config.OTLPEndpoint),
	}
	if c.config.Insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
	}
	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return err
	}
	c.shutdownFuncs = append(c.shutdownFuncs, traceExporter.Shutdown)

	c.tracerProvider = trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
	)
	c.shutdownFuncs = append(c.shutdownFuncs, c.tracerProvider.Shutdown)
	otel.SetTracerProvider(c.tracerProvider)

	logOpts := []otlploghttp.Option{
		otlploghttp.WithEndpoint(c.config.OTLPEndpoint),
	}
	if c.config.Insecure {
		logOpts = append(logOpts, otlploghttp.WithInsecure())
	}
	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		return err
	}
	c.shutdownFuncs = append(c.shutdownFuncs, logExporter.Shutdown)

	c.loggerProvider = log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(logExporter)),
		log.WithResource(res),
	)
	c.shutdownFuncs = append(c.shutdownFuncs, c.loggerProvider.Shutdown)

	// Route slog through the OTLP log pipeline for centralized viewing.
	slog.SetDefault(slog.New(otelslog.NewHandler(c.config.ServiceName,
		otelslog.WithLoggerProvider(c.loggerProvider),
	)))

	slog.Info("OpenTelemetry tracing and logging initialized",
		slog.String("endpoint", c.config.OTLPEndpoint),
		slog.String("service", c.config.ServiceName))

	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if len(c.shutdownFuncs) == 0 {
		return nil
	}

	slog.Info("Shutting down OpenTelemetry tracing")

	var errs error
	for _, fn := range c.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	c.shutdownFuncs = nil
	return errs
}

func (c *Component) RegisterHttpHandlers(_ *http.ServeMux, _ *http.ServeMux) {
	// Tracing component doesn't expose HTTP endpoints
}

// WrapTransport wraps an http.RoundTripper with OpenTelemetry instrumentation.
// If transport is nil, http.DefaultTransport is used.
func WrapTransport(transport http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(transport)
}

// NewHTTPClient creates an http.Client with OpenTelemetry instrumentation.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(nil),
	}
}
