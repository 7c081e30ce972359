package acl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"
)

// step is one scripted transport outcome.
type step struct {
	status int
	body   string
	err    error
}

// scriptedTransport replays steps in order and records every request.
// It fails the test if more requests arrive than were scripted.
type scriptedTransport struct {
	t *testing.T

	mu       sync.Mutex
	steps    []step
	requests []clients.Request
}

func newScriptedTransport(t *testing.T, steps ...step) *scriptedTransport {
	t.Helper()
	return &scriptedTransport{t: t, steps: steps}
}

func (s *scriptedTransport) Send(ctx context.Context, req clients.Request) (*clients.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)

	if len(s.steps) == 0 {
		s.t.Errorf("unexpected request %s %s", req.Method, req.URLPath())
		return nil, errors.New("no scripted response")
	}

	next := s.steps[0]
	s.steps = s.steps[1:]

	if next.err != nil {
		return nil, next.err
	}

	return &clients.Response{
		StatusCode: next.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(next.body),
	}, nil
}

func (s *scriptedTransport) calls() []clients.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]clients.Request(nil), s.requests...)
}

// countingLimiter grants every wait and counts them.
type countingLimiter struct {
	mu    sync.Mutex
	waits int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.err != nil {
		return l.err
	}

	l.waits++

	return ctx.Err()
}

func (l *countingLimiter) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.waits
}

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCoordinator returns a coordinator whose backoff sleeps are recorded
// instead of waited.
func newTestCoordinator(transport clients.Transport, limiter clients.Limiter) (*Coordinator, *[]time.Duration) {
	c := NewCoordinator(CoordinatorConfig{
		Transport: transport,
		Limiter:   limiter,
		Policy:    testPolicy(),
		Logger:    discardLogger(),
	})

	var delays []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}

	return c, &delays
}
