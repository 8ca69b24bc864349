// Package telemetry initializes OpenTelemetry tracing and metrics exporters.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Shutdown combines multiple shutdown functions.
type Shutdown func(ctx context.Context) error

// Init configures the global OpenTelemetry tracer and meter providers.
// If endpoint is empty, OTEL is disabled and no-op providers are used.
// Returns a shutdown function that must be called during graceful shutdown.
func Init(ctx context.Context, endpoint, serviceName, version string, insecure bool) (Shutdown, error) {
	if endpoint == "" {
		return func(ctx context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}

	// Trace exporter.
	traceOpts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
	}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
	}
	traceExp, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp,
			sdktrace.WithBatchTimeout(5*time.Second),
		),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	// Metric exporter.
	metricOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(endpoint),
	}
	if insecure {
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	metricExp, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExp,
				sdkmetric.WithInterval(15*time.Second),
			),
		),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	shutdown := func(ctx context.Context) error {
		var firstErr error
		if err := tp.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := mp.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
		return firstErr
	}

	return shutdown, nil
}

// Meter returns the global meter for the given instrumentation scope.
func Meter(name string) metric.Meter {
	return otel.GetMeterProvider().Meter(name)
}

// Tracer returns the global tracer for the given instrumentation scope. The
// pipeline opens one root span per run, plus a child span per phase (fetch,
// rank spaces, rank entities, write).
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}

// Metrics holds the instruments a pipeline run reports against: how many
// entities and spaces it ranked, how many votes it processed, and how long
// the run took end to end.
type Metrics struct {
	entitiesRanked metric.Int64Counter
	spacesRanked   metric.Int64Counter
	votesProcessed metric.Int64Counter
	runDuration    metric.Float64Histogram
}

// NewMetrics creates the pipeline's instruments against the named meter.
func NewMetrics(name string) (*Metrics, error) {
	meter := Meter(name)

	entitiesRanked, err := meter.Int64Counter("geoscore.entities_ranked",
		metric.WithDescription("Entities ranked per pipeline run"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create entities_ranked counter: %w", err)
	}

	spacesRanked, err := meter.Int64Counter("geoscore.spaces_ranked",
		metric.WithDescription("Spaces ranked per pipeline run"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create spaces_ranked counter: %w", err)
	}

	votesProcessed, err := meter.Int64Counter("geoscore.votes_processed",
		metric.WithDescription("Votes fetched and considered per pipeline run"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create votes_processed counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("geoscore.run.duration",
		metric.WithDescription("End-to-end pipeline run duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create run.duration histogram: %w", err)
	}

	return &Metrics{
		entitiesRanked: entitiesRanked,
		spacesRanked:   spacesRanked,
		votesProcessed: votesProcessed,
		runDuration:    runDuration,
	}, nil
}

// RecordFetch records the size of the snapshot a run fetched.
func (m *Metrics) RecordFetch(ctx context.Context, votes int) {
	m.votesProcessed.Add(ctx, int64(votes))
}

// RecordRun records the outcome of one completed pipeline run.
func (m *Metrics) RecordRun(ctx context.Context, entities, spaces int, duration time.Duration) {
	m.entitiesRanked.Add(ctx, int64(entities))
	m.spacesRanked.Add(ctx, int64(spaces))
	m.runDuration.Record(ctx, float64(duration.Milliseconds()))
}
