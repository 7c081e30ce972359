package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const gatewayInstrumentationName = "github.com/jsamuelsen/lexoffice-gateway/gateway"

// Retry reasons recorded by GatewayMetrics.RecordRetry.
const (
	RetryReasonTransient = "transient"
	RetryReasonConflict  = "conflict"
)

// GatewayMetrics records gateway operation outcomes and request pipeline events.
// A nil *GatewayMetrics is valid and records nothing.
type GatewayMetrics struct {
	operations  metric.Int64Counter
	duration    metric.Float64Histogram
	retries     metric.Int64Counter
	limiterWait metric.Float64Histogram
}

// NewGatewayMetrics creates gateway metrics on the given meter provider.
// A nil provider uses the global one.
func NewGatewayMetrics(provider metric.MeterProvider) (*GatewayMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	meter := provider.Meter(gatewayInstrumentationName)

	operations, err := meter.Int64Counter(
		"lexoffice.operation.total",
		metric.WithDescription("Gateway operations by outcome kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"lexoffice.operation.duration",
		metric.WithDescription("Gateway operation duration including retries and rate-limit waits"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation duration histogram: %w", err)
	}

	retries, err := meter.Int64Counter(
		"lexoffice.retry.total",
		metric.WithDescription("Retried Lexoffice requests by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating retry counter: %w", err)
	}

	limiterWait, err := meter.Float64Histogram(
		"lexoffice.ratelimit.wait",
		metric.WithDescription("Time spent waiting for a rate limiter token"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rate limit wait histogram: %w", err)
	}

	return &GatewayMetrics{
		operations:  operations,
		duration:    duration,
		retries:     retries,
		limiterWait: limiterWait,
	}, nil
}

// RecordOperation records one finished gateway operation. Outcome is "ok",
// "absent" or an error kind name.
func (m *GatewayMetrics) RecordOperation(ctx context.Context, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)

	m.operations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

// RecordRetry records a request that is about to be retried.
func (m *GatewayMetrics) RecordRetry(ctx context.Context, reason string) {
	if m == nil {
		return
	}

	m.retries.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordLimiterWait records how long a request waited for a token.
func (m *GatewayMetrics) RecordLimiterWait(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}

	m.limiterWait.Record(ctx, d.Seconds())
}
