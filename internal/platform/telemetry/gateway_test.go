package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}

	return out
}

func TestGatewayMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewGatewayMetrics(provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperation(ctx, "GetContact", "ok", 20*time.Millisecond)
	m.RecordOperation(ctx, "GetContact", "absent", 10*time.Millisecond)
	m.RecordRetry(ctx, RetryReasonTransient)
	m.RecordRetry(ctx, RetryReasonConflict)
	m.RecordRetry(ctx, RetryReasonConflict)
	m.RecordLimiterWait(ctx, 500*time.Millisecond)

	data := collect(t, reader)

	ops, ok := data["lexoffice.operation.total"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, ops.DataPoints, 2)

	retries, ok := data["lexoffice.retry.total"].(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range retries.DataPoints {
		total += dp.Value
	}

	assert.Equal(t, int64(3), total)
	assert.Contains(t, data, "lexoffice.ratelimit.wait")
	assert.Contains(t, data, "lexoffice.operation.duration")
}

func TestGatewayMetrics_NilIsNoop(t *testing.T) {
	var m *GatewayMetrics

	assert.NotPanics(t, func() {
		m.RecordOperation(context.Background(), "op", "ok", time.Second)
		m.RecordRetry(context.Background(), RetryReasonTransient)
		m.RecordLimiterWait(context.Background(), time.Second)
	})
}
