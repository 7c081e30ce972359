package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

// mockChecker implements HealthChecker for testing.
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) error {
	return m.err
}

// slowChecker blocks until the context ends or delay passes.
type slowChecker struct {
	name  string
	delay time.Duration
}

func (c *slowChecker) Name() string {
	return c.name
}

func (c *slowChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}

func TestNewHealthRegistry(t *testing.T) {
	registry := NewHealthRegistry(time.Second)

	require.NotNil(t, registry)
	assert.Empty(t, registry.checkers)
	assert.Equal(t, time.Second, registry.timeout)
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry(0)

	require.NoError(t, registry.Register(&mockChecker{name: "lexoffice"}))

	err := registry.Register(&mockChecker{name: "lexoffice"})

	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "lexoffice")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll_NoCheckers(t *testing.T) {
	result := NewHealthRegistry(0).CheckAll(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
	assert.True(t, result.Ready())
}

func TestCheckAll_Statuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus HealthStatus
		wantKind   string
		wantReady  bool
	}{
		{
			name:       "healthy",
			wantStatus: HealthStatusHealthy,
			wantReady:  true,
		},
		{
			name:       "rate limited is degraded",
			err:        &domain.Error{Kind: domain.KindRateLimited, HTTPStatus: 429},
			wantStatus: HealthStatusDegraded,
			wantKind:   "RateLimited",
			wantReady:  true,
		},
		{
			name:       "server failure is degraded",
			err:        &domain.Error{Kind: domain.KindTransient, HTTPStatus: 503},
			wantStatus: HealthStatusDegraded,
			wantKind:   "Transient",
			wantReady:  true,
		},
		{
			name:       "bad api key is unhealthy",
			err:        &domain.Error{Kind: domain.KindUnauthenticated, HTTPStatus: 401, Detail: "Unauthorized"},
			wantStatus: HealthStatusUnhealthy,
			wantKind:   "Unauthenticated",
		},
		{
			name:       "plain error is unhealthy",
			err:        errors.New("connection timeout"),
			wantStatus: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry(0)
			require.NoError(t, registry.Register(&mockChecker{name: "lexoffice", err: tt.err}))

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, tt.wantReady, result.Ready())

			check := result.Checks["lexoffice"]
			require.NotNil(t, check)
			assert.Equal(t, tt.wantStatus, check.Status)
			assert.Equal(t, tt.wantKind, check.Kind)

			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), check.Message)
			} else {
				assert.Empty(t, check.Message)
			}
		})
	}
}

func TestCheckAll_WorstStatusWins(t *testing.T) {
	registry := NewHealthRegistry(0)

	require.NoError(t, registry.Register(&mockChecker{name: "a"}))
	require.NoError(t, registry.Register(&mockChecker{name: "b", err: &domain.Error{Kind: domain.KindTransient}}))
	require.NoError(t, registry.Register(&mockChecker{name: "c", err: &domain.Error{Kind: domain.KindForbidden}}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 3)
	assert.Equal(t, HealthStatusHealthy, result.Checks["a"].Status)
	assert.Equal(t, HealthStatusDegraded, result.Checks["b"].Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["c"].Status)
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry(0)
	require.NoError(t, registry.Register(&slowChecker{name: "slow", delay: time.Second}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow"].Message, "context canceled")
}

func TestCheckAll_PerCheckTimeout(t *testing.T) {
	registry := NewHealthRegistry(20 * time.Millisecond)
	require.NoError(t, registry.Register(&slowChecker{name: "slow", delay: time.Second}))

	start := time.Now()
	result := registry.CheckAll(context.Background())

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow"].Message, "deadline exceeded")
}
