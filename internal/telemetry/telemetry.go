package telemetry

import (
	"context"
	"strings"

	"github.com/windoze95/recipe-agent/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

// Endpoint is an OTLP/HTTP collector address split into the parts the
// exporter expects.
type Endpoint struct {
	Host     string
	URLPath  string
	Insecure bool
}

// ParseEndpoint splits a collector URL such as "http://localhost:4318" or
// "https://collector.example.com/otlp" into host and trace path.
func ParseEndpoint(raw string) Endpoint {
	ep := Endpoint{URLPath: "/v1/traces"}

	host := raw
	if strings.HasPrefix(host, "https://") {
		host = strings.TrimPrefix(host, "https://")
	} else if strings.HasPrefix(host, "http://") {
		host = strings.TrimPrefix(host, "http://")
		ep.Insecure = true
	}

	if idx := strings.Index(host, "/"); idx > 0 {
		basePath := host[idx:]
		host = host[:idx]
		basePath = strings.TrimSuffix(basePath, "/v1/traces")
		basePath = strings.TrimSuffix(basePath, "/")
		ep.URLPath = basePath + "/v1/traces"
	}
	ep.Host = host
	return ep
}

// Init installs a global tracer provider exporting to the OTLP endpoint and
// returns its shutdown function. With an empty endpoint nothing is installed
// and spans go to the default no-op provider.
func Init(ctx context.Context, serviceName, otlpEndpoint string) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if otlpEndpoint == "" {
		logger.Get().Info("telemetry disabled")
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	ep := ParseEndpoint(otlpEndpoint)
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(ep.Host),
		otlptracehttp.WithURLPath(ep.URLPath),
	}
	if ep.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Get().Info("telemetry initialized",
		zap.String("endpoint", ep.Host),
		zap.String("trace_path", ep.URLPath),
		zap.Bool("insecure", ep.Insecure),
	)

	return tp.Shutdown, nil
}
