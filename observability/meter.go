package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/unitrack/unitrack/logger"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The returned provider must be shut down on exit to flush metrics.
func InitMeter(ctx context.Context, config Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Metric instrument names recorded by the API client.
const (
	MetricClientRequests = "unitrack.client.requests"
	MetricClientDuration = "unitrack.client.duration"
	MetricClientActive   = "unitrack.client.active"
)

// ClientMetrics holds the instruments recorded for each API exchange.
type ClientMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
}

// NewClientMetrics creates the API client instruments on the given meter.
func NewClientMetrics(meter metric.Meter) (*ClientMetrics, error) {
	requestTotal, err := meter.Int64Counter(MetricClientRequests,
		metric.WithDescription("Total number of API requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricClientRequests, err)
	}

	requestDuration, err := meter.Float64Histogram(MetricClientDuration,
		metric.WithDescription("Duration of API requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricClientDuration, err)
	}

	requestActive, err := meter.Int64UpDownCounter(MetricClientActive,
		metric.WithDescription("Number of API requests in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricClientActive, err)
	}

	return &ClientMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
	}, nil
}

// RecordRequestStart increments the in-flight count.
func (m *ClientMetrics) RecordRequestStart(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RecordRequestEnd decrements the in-flight count and records the outcome,
// which is "ok" or the error kind.
func (m *ClientMetrics) RecordRequestEnd(ctx context.Context, client, method, outcome string, duration time.Duration) {
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	m.requestDuration.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
	))
}
