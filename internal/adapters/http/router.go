package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/http/handlers"
	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/http/middleware"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/telemetry"
)

// Probe paths. Liveness and metrics scrapes are not traced; all three are
// logged at trace level when they succeed.
const (
	pathLive    = "/-" + handlers.RouteLive
	pathReady   = "/-" + handlers.RouteReady
	pathMetrics = "/-" + handlers.RouteMetrics
)

// RouterConfig contains configuration for setting up the ops router.
type RouterConfig struct {
	// ServiceName names the otelgin server spans.
	ServiceName string

	// HealthHandler serves the /- endpoints.
	HealthHandler *handlers.HealthHandler
}

// SetupRouter configures middleware and routes on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - one line per request
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName, pathLive, pathMetrics)...)
	engine.Use(middleware.Logging(pathLive, pathReady, pathMetrics))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine)
	}
}
