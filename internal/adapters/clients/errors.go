// Package clients provides the outbound HTTP transport and rate limiter for
// the Lexoffice API.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// These are distinct from domain errors - they represent infrastructure failures
// that are translated to domain errors by the acl package.
var (
	// ErrTransport is returned when no HTTP response could be obtained
	// (connection refused, reset, TLS failure, body cut short).
	// The underlying error is wrapped for context.
	ErrTransport = errors.New("transport failure")

	// ErrResponseTooLarge is returned when a response body exceeds
	// Config.MaxResponseBytes. Resending the request would not help.
	ErrResponseTooLarge = errors.New("response too large")
)
