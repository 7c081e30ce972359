package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
)

func tracedEngine(t *testing.T, logs *bytes.Buffer) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		logger := slog.New(slog.NewJSONHandler(logs, nil))
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
	})
	engine.Use(Middleware("lexoffice-gateway", "/-/live")...)

	probe := func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).InfoContext(c.Request.Context(), "probe")
		c.Status(http.StatusOK)
	}
	engine.GET("/-/ready", probe)
	engine.GET("/-/live", probe)

	return engine, recorder
}

func TestMiddleware_TracesReadiness(t *testing.T) {
	var logs bytes.Buffer

	engine, recorder := tracedEngine(t, &logs)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))

	require.Equal(t, http.StatusOK, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	traceID := spans[0].SpanContext().TraceID().String()
	assert.Equal(t, traceID, w.Header().Get(HeaderTraceID))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, traceID, entry["trace_id"])
}

func TestMiddleware_SkipsUntracedPaths(t *testing.T) {
	var logs bytes.Buffer

	engine, recorder := tracedEngine(t, &logs)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
	assert.Empty(t, w.Header().Get(HeaderTraceID))
	assert.NotContains(t, logs.String(), "trace_id")
}
