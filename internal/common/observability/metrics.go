package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the OpenTelemetry meter provider (exported through
// Prometheus) and the tracer used around submissions.
type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	tracer             trace.Tracer
	submissionCounter  otelmetric.Int64Counter
	submissionDuration otelmetric.Float64Histogram
}

// New registers the exporter with reg (prometheus.DefaultRegisterer when nil).
func New(serviceName string, reg promclient.Registerer) (*Observability, error) {
	opts := []otelprom.Option{}
	if reg != nil {
		opts = append(opts, otelprom.WithRegisterer(reg))
	}
	exporter, err := otelprom.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	submissionCounter, err := meter.Int64Counter(
		"registration.gateway.calls",
		otelmetric.WithDescription("Number of submission gateway calls"),
	)
	if err != nil {
		return nil, fmt.Errorf("create submission counter: %w", err)
	}

	submissionDuration, err := meter.Float64Histogram(
		"registration.gateway.duration",
		otelmetric.WithDescription("Submission gateway call duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create submission histogram: %w", err)
	}

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		tracer:             otel.Tracer(serviceName),
		submissionCounter:  submissionCounter,
		submissionDuration: submissionDuration,
	}, nil
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	return &Observability{tracer: otel.Tracer("noop")}
}

// StartSpan starts a span from the global tracer provider.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (o *Observability) RecordSubmission(ctx context.Context, gateway, outcome string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("gateway", gateway),
		attribute.String("outcome", outcome),
	)
	if o.submissionCounter != nil {
		o.submissionCounter.Add(ctx, 1, attrs)
	}
	if o.submissionDuration != nil {
		o.submissionDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
