package config

import (
	"context"
	"errors"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const testServiceName = "reactionstore-test"

// InMemoryProviders holds OpenTelemetry providers that keep their telemetry in memory.
type InMemoryProviders struct {
	TracerProvider *sdktrace.TracerProvider
	SpanExporter   *tracetest.InMemoryExporter
	MeterProvider  *sdkmetric.MeterProvider
	MetricReader   *sdkmetric.ManualReader
	Resource       *resource.Resource
}

// NewInMemoryObservabilityConfig creates tracer and meter providers backed by an in-memory
// span exporter and a manual metric reader. Spans are exported synchronously when they end.
func NewInMemoryObservabilityConfig() *InMemoryProviders {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(testServiceName),
		semconv.ServiceVersionKey.String("test"),
	)

	spanExporter := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(spanExporter),
		sdktrace.WithResource(res),
	)

	metricReader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(metricReader),
		sdkmetric.WithResource(res),
	)

	return &InMemoryProviders{
		TracerProvider: tracerProvider,
		SpanExporter:   spanExporter,
		MeterProvider:  meterProvider,
		MetricReader:   metricReader,
		Resource:       res,
	}
}

// Spans returns all spans that ended so far.
func (p *InMemoryProviders) Spans() tracetest.SpanStubs {
	return p.SpanExporter.GetSpans()
}

// CollectMetrics reads the current state of all instruments.
func (p *InMemoryProviders) CollectMetrics(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var resourceMetrics metricdata.ResourceMetrics
	err := p.MetricReader.Collect(ctx, &resourceMetrics)

	return resourceMetrics, err
}

// Shutdown shuts down both providers.
func (p *InMemoryProviders) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}

// FindMetric returns the metric with the given name from collected resource metrics.
func FindMetric(resourceMetrics metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}

	return metricdata.Metrics{}, false
}
