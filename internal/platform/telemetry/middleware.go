package telemetry

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/lexoffice-gateway/telemetry"

// HeaderTraceID is set on ops responses that were traced.
const HeaderTraceID = "X-Trace-ID"

// serverMetrics holds ops listener metrics.
type serverMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

func newServerMetrics(provider metric.MeterProvider) (*serverMetrics, error) {
	meter := provider.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Ops listener request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Ops listener requests"),
	)
	if err != nil {
		return nil, err
	}

	return &serverMetrics{requestDuration: requestDuration, requestTotal: requestTotal}, nil
}

// Middleware returns the Gin handlers that trace ops requests with otelgin,
// put the trace ID on the X-Trace-ID header and the request logger, and
// record request metrics. Requests to untraced paths (typically the liveness
// and metrics scrapes) are measured but get no span.
func Middleware(serviceName string, untraced ...string) gin.HandlersChain {
	tracing := otelgin.Middleware(serviceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return !slices.Contains(untraced, r.URL.Path)
		}),
	)

	metrics, err := newServerMetrics(otel.GetMeterProvider())
	if err != nil {
		otel.Handle(err)
	}

	return gin.HandlersChain{tracing, func(c *gin.Context) {
		start := time.Now()

		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(c.Request.Context(), traceID))
		}

		c.Next()

		if metrics == nil {
			return
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.status_code", c.Writer.Status()),
		)

		metrics.requestDuration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
		metrics.requestTotal.Add(c.Request.Context(), 1, attrs)
	}}
}
