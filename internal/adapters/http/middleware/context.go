// Package middleware provides the Gin middleware of the ops listener and the
// request/correlation ID context shared with the Lexoffice client, which
// forwards both IDs on every outbound request.
package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
)

type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

// RequestIDFromContext extracts the request ID from context.Context.
// Returns empty string if not set or if ctx is nil.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext extracts the correlation ID from context.Context.
// Returns empty string if not set or if ctx is nil.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyCorrelationID)
}

// ContextWithRequestID stores a request ID in the context.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID stores a correlation ID in the context.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

// WithCorrelation prepares ctx for a gateway call made outside an HTTP
// request, such as a batch job. It stores a fresh request ID and the given
// correlation ID (a fresh one if empty) and enriches the context logger
// with both.
func WithCorrelation(ctx context.Context, correlationID string) context.Context {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	requestID := uuid.NewString()

	ctx = withRequestID(ctx, requestID)

	return withCorrelationID(ctx, correlationID)
}

func withRequestID(ctx context.Context, id string) context.Context {
	return logging.WithRequestID(ContextWithRequestID(ctx, id), id)
}

func withCorrelationID(ctx context.Context, id string) context.Context {
	return logging.WithCorrelationID(ContextWithCorrelationID(ctx, id), id)
}

func idFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
