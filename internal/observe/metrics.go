// Package observe provides application-wide observability primitives for
// frontdesk: OpenTelemetry metrics, tracing, structured logging helpers, and
// HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all frontdesk metrics.
const meterName = "github.com/autoaccru/frontdesk"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// TranscriptionDuration tracks speech-to-text latency per uploaded
	// recording. Use with attribute.String("provider", ...).
	TranscriptionDuration metric.Float64Histogram

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes: attribute.String("method", ...), attribute.String("path", ...).
	HTTPRequestDuration metric.Float64Histogram

	// Intakes counts processed intakes. Use with attributes:
	//   attribute.String("source", "manual"|"voice"),
	//   attribute.String("status", "ok"|"error")
	Intakes metric.Int64Counter

	// NewPatients counts intakes whose record was created with the new-patient
	// snapshot set. Use with attribute.String("source", ...).
	NewPatients metric.Int64Counter

	// TranscriptionErrors counts failed transcription calls. Use with
	// attribute.String("provider", ...).
	TranscriptionErrors metric.Int64Counter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). The upper
// buckets are generous because a batch transcription of a long recording can
// take several seconds.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TranscriptionDuration, err = m.Float64Histogram("frontdesk.transcription.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("frontdesk.http.request.duration",
		metric.WithDescription("Latency of HTTP request handling."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Intakes, err = m.Int64Counter("frontdesk.intakes.total",
		metric.WithDescription("Number of processed patient intakes."),
	); err != nil {
		return nil, err
	}
	if met.NewPatients, err = m.Int64Counter("frontdesk.new_patients.total",
		metric.WithDescription("Number of intakes recorded with the new-patient flag."),
	); err != nil {
		return nil, err
	}
	if met.TranscriptionErrors, err = m.Int64Counter("frontdesk.transcription.errors.total",
		metric.WithDescription("Number of failed transcription calls."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the lazily-initialised package-level [Metrics]
// instance bound to the global meter provider. Instrument creation errors are
// not expected with valid names; if one occurs the instruments are no-ops.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			m = &Metrics{}
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// RecordIntake is a convenience helper that increments the intake counter
// and, for successfully created new-patient records, the new-patient counter.
func (m *Metrics) RecordIntake(ctx context.Context, source string, err error, newPatient bool) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	if m.Intakes != nil {
		m.Intakes.Add(ctx, 1, metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("status", status),
		))
	}
	if err == nil && newPatient && m.NewPatients != nil {
		m.NewPatients.Add(ctx, 1, metric.WithAttributes(
			attribute.String("source", source),
		))
	}
}
