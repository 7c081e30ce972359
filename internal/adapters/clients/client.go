package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/http/middleware"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/config"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
)

const (
	// instrumentationName is used for OpenTelemetry tracer and meter.
	instrumentationName = "github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"

	// defaultTimeout is the default request timeout if not configured.
	defaultTimeout = 30 * time.Second

	// DefaultMaxResponseBytes caps how much of a response body is read. File
	// downloads are the largest responses.
	DefaultMaxResponseBytes = 64 << 20

	// ContentTypeJSON is the media type of every Lexoffice API payload.
	ContentTypeJSON = "application/json"
)

// Config configures an HTTP client instance.
type Config struct {
	// BaseURL is the base URL for all requests (e.g., "https://api.lexoffice.io/v1").
	BaseURL string

	// ServiceName identifies the downstream service for logging and tracing.
	ServiceName string

	// Timeout is the per-attempt request timeout.
	Timeout time.Duration

	// Transport configures the connection pool.
	Transport config.TransportConfig

	// MaxResponseBytes bounds a response body; a larger one fails the attempt
	// with ErrResponseTooLarge. Defaults to DefaultMaxResponseBytes.
	MaxResponseBytes int64

	// AuthFunc injects authentication into each request attempt.
	AuthFunc func(*http.Request)

	// Logger is an optional logger. If nil, a default logger is used.
	Logger *slog.Logger
}

// Request is one HTTP exchange with the downstream service. Body is held in
// memory so the same Request can be replayed on retry.
type Request struct {
	Method string

	// Path is relative to the base URL, e.g. "/contacts/{id}".
	Path string

	// Query is an encoded query string without the leading '?'.
	Query string

	Body        []byte
	ContentType string

	// Accept defaults to application/json.
	Accept string
}

// URLPath returns the path and query as sent.
func (r Request) URLPath() string {
	if r.Query == "" {
		return r.Path
	}

	return r.Path + "?" + r.Query
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status is 2xx.
func (r *Response) Success() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Transport sends a single request attempt. It returns a Response for every
// HTTP status; the error is reserved for failures to obtain a response.
type Transport interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// Client sends single attempts to the Lexoffice API. Each attempt carries the
// API key, the caller's request and correlation IDs and the trace context,
// and gets its own client span. Pacing and retries belong to the caller.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	cfg         *Config

	tracer          trace.Tracer
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a new instrumented HTTP client.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Transport.MaxIdleConns > 0 {
		transport.MaxIdleConns = cfg.Transport.MaxIdleConns
	}

	if cfg.Transport.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.Transport.MaxIdleConnsPerHost
	}

	if cfg.Transport.IdleConnTimeout > 0 {
		transport.IdleConnTimeout = cfg.Transport.IdleConnTimeout
	}

	logger.Debug("client ready",
		slog.String("base_url", cfg.BaseURL),
		slog.Duration("timeout", cfg.Timeout),
	)

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName:     cfg.ServiceName,
		cfg:             cfg,
		tracer:          tracer,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

// BearerAuth returns an AuthFunc that sets "Authorization: Bearer <token>".
func BearerAuth(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// attempt carries the bookkeeping of one Send call.
type attempt struct {
	req    Request
	span   trace.Span
	logger *slog.Logger
	start  time.Time
}

// Send executes one request attempt.
// Context cancellation is returned as the context's error so callers can tell
// it apart from a transport failure, which wraps ErrTransport.
func (c *Client) Send(ctx context.Context, r Request) (*Response, error) {
	a := &attempt{
		req:   r,
		start: time.Now(),
		logger: logging.FromContext(ctx).With(
			slog.String("downstream", c.serviceName),
			slog.String("method", r.Method),
			slog.String("path", r.Path),
		),
	}

	var body io.Reader = http.NoBody
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.buildURL(r), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.injectHeaders(ctx, req, r)

	ctx, a.span = c.tracer.Start(ctx, "HTTP "+r.Method+" "+c.serviceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer a.span.End()

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	a.logger.Log(ctx, logging.LevelTrace, "sending request",
		slog.String("query", r.Query),
		slog.Int("body_bytes", len(r.Body)),
	)

	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, c.fail(ctx, a, err)
	}
	defer resp.Body.Close()

	limit := c.cfg.MaxResponseBytes

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, c.fail(ctx, a, fmt.Errorf("reading response body: %w", err))
	}

	if int64(len(data)) > limit {
		return nil, c.reject(ctx, a, resp.StatusCode,
			fmt.Errorf("%w: body exceeds %d bytes", ErrResponseTooLarge, limit))
	}

	return c.complete(ctx, a, resp, data), nil
}

// reject records an attempt whose response could not be accepted.
func (c *Client) reject(ctx context.Context, a *attempt, status int, err error) error {
	duration := time.Since(a.start)
	a.span.SetAttributes(attribute.Int("http.status_code", status))
	a.span.SetStatus(codes.Error, err.Error())

	c.recordMetrics(ctx, a.req.Method, status, duration, "error")
	a.logger.Warn("response rejected",
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.Any("error", err),
	)

	return err
}

// fail records an attempt that produced no response.
func (c *Client) fail(ctx context.Context, a *attempt, err error) error {
	duration := time.Since(a.start)
	a.span.SetStatus(codes.Error, err.Error())

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.recordMetrics(ctx, a.req.Method, 0, duration, "context_canceled")
		a.logger.Debug("request abandoned", slog.Any("error", ctxErr))

		return ctxErr
	}

	c.recordMetrics(ctx, a.req.Method, 0, duration, "error")
	a.logger.Warn("request failed", slog.Duration("duration", duration), slog.Any("error", err))

	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// complete records an attempt that got a response, whatever its status.
func (c *Client) complete(ctx context.Context, a *attempt, resp *http.Response, body []byte) *Response {
	duration := time.Since(a.start)

	a.span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		a.span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	c.recordMetrics(ctx, a.req.Method, resp.StatusCode, duration, statusClass(resp.StatusCode))

	a.logger.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
		slog.Int("body_bytes", len(body)),
	)

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
}

// statusClass returns "2xx", "4xx" and so on.
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

// injectHeaders adds content negotiation, request ID, correlation ID, and auth to the request.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request, r Request) {
	accept := r.Accept
	if accept == "" {
		accept = ContentTypeJSON
	}

	req.Header.Set("Accept", accept)

	if r.Body != nil {
		contentType := r.ContentType
		if contentType == "" {
			contentType = ContentTypeJSON
		}

		req.Header.Set("Content-Type", contentType)
	}

	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}

	if c.cfg.AuthFunc != nil {
		c.cfg.AuthFunc(req)
	}
}

// buildURL constructs the full URL from base URL, path and query.
func (c *Client) buildURL(r Request) string {
	path := r.URLPath()
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

// recordMetrics records request metrics.
func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	c.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	c.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
