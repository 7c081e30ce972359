package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
)

// Every gateway operation runs in two steps:
//   1. VALIDATE - check arguments and payload locally; nothing is sent
//   2. PERFORM  - hand the request to the Lexoffice client, which paces,
//                 retries and maps the response
//
// A validation failure therefore never costs a rate-limit token.

// ExecutionStep is the step an operation failed in.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
)

// ExecutionError records which step of an operation failed. The cause is
// always reachable through errors.Is and errors.As.
type ExecutionError struct {
	Op    string
	Step  ExecutionStep
	Cause error
}

// Error implements the error interface. Domain errors already carry the
// operation name, so only the step is prepended.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}

// Operation describes one gateway call.
type Operation[I, O any] struct {
	// Name identifies the operation in logs, metrics and errors.
	Name string

	// Validate rejects bad input before any request is made. Optional.
	Validate func(input I) error

	// Perform issues the request.
	Perform func(ctx context.Context, input I) (O, error)

	// Absent reports a successful lookup that found nothing. Optional.
	Absent func(output O) bool
}

// Outcomes recorded besides error kind names.
const (
	outcomeOK     = "ok"
	outcomeAbsent = "absent"
)

// execute runs op for input on behalf of g.
func execute[I, O any](ctx context.Context, g *Gateway, op Operation[I, O], input I) (O, error) {
	var zero O

	ctx = logging.WithOperation(ctx, op.Name)
	logger := logging.FromContext(ctx)
	start := time.Now()

	if op.Validate != nil {
		if err := op.Validate(input); err != nil {
			logger.WarnContext(ctx, "validation failed", slog.Any("error", err))
			g.record(ctx, op.Name, err, start)

			return zero, fail(op.Name, StepValidate, err)
		}
	}

	out, err := op.Perform(ctx, input)
	if err != nil {
		level := slog.LevelError
		if domain.IsCancelled(err) {
			level = slog.LevelDebug
		}

		logger.Log(ctx, level, "operation failed",
			slog.Any("error", err),
			slog.String("kind", domain.KindOf(err).String()),
		)
		g.record(ctx, op.Name, err, start)

		return zero, fail(op.Name, StepPerform, err)
	}

	outcome := outcomeOK
	if op.Absent != nil && op.Absent(out) {
		outcome = outcomeAbsent
	}

	g.metrics.RecordOperation(ctx, op.Name, outcome, time.Since(start))
	logger.DebugContext(ctx, "operation completed",
		slog.String("outcome", outcome),
		slog.Duration("duration", time.Since(start)),
	)

	return out, nil
}

func (g *Gateway) record(ctx context.Context, name string, err error, start time.Time) {
	g.metrics.RecordOperation(ctx, name, domain.KindOf(err).String(), time.Since(start))
}

func fail(op string, step ExecutionStep, err error) error {
	return &ExecutionError{Op: op, Step: step, Cause: domain.WithOp(err, op)}
}

// lookup is the result of a single-resource read.
type lookup[T any] struct {
	value *T
	found bool
}

func notFound[T any](l lookup[T]) bool {
	return !l.found
}
