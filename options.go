package geoscore

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ashita-ai/geoscore/internal/telemetry"
)

// Option configures a Pipeline.
type Option func(*resolvedOptions)

// resolvedOptions holds every extension point after applying defaults.
// Unexported — callers use the With* functions.
type resolvedOptions struct {
	provider Provider
	writer   Writer
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *telemetry.Metrics
}

func defaultResolvedOptions() resolvedOptions {
	// Instrument creation against the global (possibly no-op) MeterProvider
	// never errors in practice, but New still surfaces it rather than
	// swallowing it — see New's metrics handling.
	metrics, _ := telemetry.NewMetrics("geoscore")
	return resolvedOptions{
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer("geoscore"),
		metrics: metrics,
	}
}

// WithProvider sets the data provider a Pipeline fetches its run snapshot
// from. Required — New returns an error if it's never set.
func WithProvider(p Provider) Option {
	return func(o *resolvedOptions) { o.provider = p }
}

// WithWriter sets the score writer a Pipeline persists its run output to.
// Required — New returns an error if it's never set.
func WithWriter(w Writer) Option {
	return func(o *resolvedOptions) { o.writer = w }
}

// WithLogger overrides the Pipeline's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *resolvedOptions) { o.logger = logger }
}

// WithTracer overrides the Pipeline's tracer. Defaults to a no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *resolvedOptions) { o.tracer = tracer }
}

// WithMetrics overrides the Pipeline's instrument set. Defaults to
// instruments registered against the global MeterProvider, which report
// into the void until telemetry.Init wires a real exporter.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(o *resolvedOptions) { o.metrics = metrics }
}
