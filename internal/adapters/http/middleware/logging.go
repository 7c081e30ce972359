package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
)

// Logging returns middleware that logs one line per ops request.
//
// Probe paths are scraped every few seconds, so their successful requests
// are logged at trace level; a failing probe is logged like any other
// request: warn for 4xx, error for 5xx.
func Logging(probePaths ...string) gin.HandlerFunc {
	probes := make(map[string]struct{}, len(probePaths))
	for _, p := range probePaths {
		probes[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		_, probe := probes[c.Request.URL.Path]

		level := slog.LevelInfo

		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case probe:
			level = logging.LevelTrace
		}

		ctx := c.Request.Context()
		latency := time.Since(start)

		logging.FromContext(ctx).Log(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
