package acl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"
	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/config"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/telemetry"
)

// versionField is the JSON field Lexoffice uses for optimistic locking.
const versionField = "version"

// RetryPolicy bounds the retries of one logical operation.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt. Transient
	// and conflict retries share it.
	MaxRetries int

	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64

	// JitterFactor spreads each delay by up to ±JitterFactor of its value.
	JitterFactor float64
}

// RetryPolicyFromConfig builds a policy from client retry settings.
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxRetries:      cfg.MaxRetries,
		InitialInterval: cfg.InitialInterval,
		MaxInterval:     cfg.MaxInterval,
		Multiplier:      cfg.Multiplier,
		JitterFactor:    cfg.JitterFactor,
	}
}

// Backoff returns the delay before retry n (starting at 1):
// InitialInterval * Multiplier^n, capped at MaxInterval.
func (p RetryPolicy) Backoff(retry int) time.Duration {
	backoff := float64(p.InitialInterval) * math.Pow(p.Multiplier, float64(retry))

	// Cap at max interval
	if p.MaxInterval > 0 && backoff > float64(p.MaxInterval) {
		backoff = float64(p.MaxInterval)
	}

	if p.JitterFactor > 0 {
		jitter := backoff * p.JitterFactor * (rand.Float64()*2 - 1) //nolint:gosec // No need for crypto-grade randomness
		backoff += jitter
	}

	return time.Duration(backoff)
}

// VersionedWrite describes how to recover a write that failed with 409.
type VersionedWrite struct {
	// ResourceID names the resource in the final Conflict error.
	ResourceID string

	// Read fetches the current state of the resource.
	Read clients.Request
}

// CoordinatorConfig contains the collaborators of a Coordinator.
type CoordinatorConfig struct {
	Transport clients.Transport
	Limiter   clients.Limiter
	Policy    RetryPolicy

	// Metrics is optional.
	Metrics *telemetry.GatewayMetrics

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

// Coordinator runs one logical request through the rate limiter and
// transport, retrying transient failures with exponential backoff and
// resolving optimistic-lock conflicts by refetching the current version.
//
// Every attempt, including conflict refetches, waits on the limiter first.
type Coordinator struct {
	transport clients.Transport
	limiter   clients.Limiter
	policy    RetryPolicy
	metrics   *telemetry.GatewayMetrics
	logger    *slog.Logger

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewCoordinator creates a retry coordinator.
// Panics if Transport or Limiter is nil.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	if cfg.Transport == nil {
		panic("Coordinator: Transport is required")
	}

	if cfg.Limiter == nil {
		panic("Coordinator: Limiter is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		transport: cfg.Transport,
		limiter:   cfg.Limiter,
		policy:    cfg.Policy,
		metrics:   cfg.Metrics,
		logger:    logger.With(slog.String("component", "acl.Coordinator")),
		sleep:     sleepContext,
	}
}

// Execute sends req, retrying transport failures and 5xx responses.
// A 2xx response is returned as is; any other outcome is a *domain.Error.
func (c *Coordinator) Execute(ctx context.Context, req clients.Request) (*clients.Response, error) {
	return c.run(ctx, req, nil)
}

// ExecuteVersioned sends a versioned write. On 409 it reads the resource
// through w.Read, copies the current version into the pending body and
// resubmits. Conflict retries count against the same ceiling as transient
// ones; when it is exhausted on a conflict the error names w.ResourceID.
func (c *Coordinator) ExecuteVersioned(ctx context.Context, req clients.Request, w VersionedWrite) (*clients.Response, error) {
	return c.run(ctx, req, &w)
}

func (c *Coordinator) run(ctx context.Context, req clients.Request, w *VersionedWrite) (*clients.Response, error) {
	logger := logging.FromContext(ctx).With(
		slog.String("method", req.Method),
		slog.String("path", req.Path),
	)

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			delay := c.policy.Backoff(attempt)
			logger.Debug("backing off", slog.Int("attempt", attempt+1), slog.Duration("delay", delay))

			if err := c.sleep(ctx, delay); err != nil {
				return nil, &domain.Error{Kind: domain.KindCancelled, Err: err}
			}
		}

		resp, err := c.attempt(ctx, req)
		if err != nil {
			failure := mapTransportError(err)
			if failure.Kind != domain.KindTransient {
				return nil, failure
			}

			if attempt >= c.policy.MaxRetries {
				logger.Warn("retries exhausted", slog.Int("attempts", attempt+1), slog.Any("error", err))
				return nil, failure
			}

			c.noteRetry(ctx, logger, telemetry.RetryReasonTransient, attempt, 0)

			continue
		}

		switch {
		case resp.Success():
			return resp, nil

		case resp.StatusCode >= http.StatusInternalServerError:
			if attempt >= c.policy.MaxRetries {
				logger.Warn("retries exhausted", slog.Int("attempts", attempt+1), slog.Int("status", resp.StatusCode))
				return nil, MapStatusError(resp.StatusCode, resp.Body)
			}

			c.noteRetry(ctx, logger, telemetry.RetryReasonTransient, attempt, resp.StatusCode)

		case resp.StatusCode == http.StatusConflict && w != nil:
			if attempt >= c.policy.MaxRetries {
				failure := MapStatusError(resp.StatusCode, resp.Body)
				failure.Resource = w.ResourceID
				logger.Warn("version conflict persisted", slog.Int("attempts", attempt+1), slog.String("resource", w.ResourceID))

				return nil, failure
			}

			body, err := c.refreshVersion(ctx, req.Body, w)
			if err != nil {
				return nil, err
			}

			req.Body = body

			c.noteRetry(ctx, logger, telemetry.RetryReasonConflict, attempt, resp.StatusCode)

		default:
			return nil, MapStatusError(resp.StatusCode, resp.Body)
		}
	}
}

// attempt waits for a limiter token and sends req once.
func (c *Coordinator) attempt(ctx context.Context, req clients.Request) (*clients.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	return c.transport.Send(ctx, req)
}

// refreshVersion reads the resource and returns body with its version field
// replaced by the server's current version.
func (c *Coordinator) refreshVersion(ctx context.Context, body []byte, w *VersionedWrite) ([]byte, error) {
	current, err := c.Execute(ctx, w.Read)
	if err != nil {
		return nil, err
	}

	version := gjson.GetBytes(current.Body, versionField)
	if version.Type != gjson.Number {
		return nil, &domain.Error{
			Kind:       domain.KindUnexpected,
			HTTPStatus: current.StatusCode,
			Resource:   w.ResourceID,
			Detail:     "refetched resource carries no version",
		}
	}

	rewritten, err := sjson.SetBytes(body, versionField, version.Int())
	if err != nil {
		return nil, &domain.Error{
			Kind:     domain.KindUnexpected,
			Resource: w.ResourceID,
			Detail:   "rewriting version",
			Err:      fmt.Errorf("setting version %d: %w", version.Int(), err),
		}
	}

	c.logger.DebugContext(ctx, "refreshed version after conflict",
		slog.String("resource", w.ResourceID),
		slog.Int64("version", version.Int()),
	)

	return rewritten, nil
}

func (c *Coordinator) noteRetry(ctx context.Context, logger *slog.Logger, reason string, attempt, status int) {
	c.metrics.RecordRetry(ctx, reason)
	logger.Info("retrying request",
		slog.String("reason", reason),
		slog.Int("attempt", attempt+1),
		slog.Int("status", status),
	)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
