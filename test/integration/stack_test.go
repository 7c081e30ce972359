//go:build integration

package integration

import (
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"
	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients/acl"
	ophttp "github.com/jsamuelsen/lexoffice-gateway/internal/adapters/http"
	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/http/handlers"
	"github.com/jsamuelsen/lexoffice-gateway/internal/app"
	"github.com/jsamuelsen/lexoffice-gateway/internal/ports"
)

const testToken = "integration-test-token"

// stackOptions tunes the wired gateway. Zero values give a fast limiter and
// millisecond backoff so scenarios stay quick.
type stackOptions struct {
	requestsPerSecond int
}

// stack is the gateway wired exactly like the binary, pointed at a fake.
type stack struct {
	fake      *fakeLexoffice
	limiter   *clients.RateLimiter
	lexoffice *acl.Lexoffice
	gateway   *app.Gateway
}

func newStack(fake *fakeLexoffice, opts stackOptions) (*stack, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rps := opts.requestsPerSecond
	if rps == 0 {
		rps = 200
	}

	transport, err := clients.New(&clients.Config{
		BaseURL:     fake.URL(),
		ServiceName: "lexoffice",
		Timeout:     5 * time.Second,
		AuthFunc:    clients.BearerAuth(testToken),
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating transport: %w", err)
	}

	limiter, err := clients.NewRateLimiter(clients.RateLimiterConfig{
		Requests: rps,
		Window:   time.Second,
		Burst:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("creating limiter: %w", err)
	}

	coordinator := acl.NewCoordinator(acl.CoordinatorConfig{
		Transport: transport,
		Limiter:   limiter,
		Policy: acl.RetryPolicy{
			MaxRetries:      3,
			InitialInterval: time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      2,
		},
		Logger: logger,
	})

	lexoffice := acl.NewLexoffice(acl.LexofficeConfig{Coordinator: coordinator, Logger: logger})

	return &stack{
		fake:      fake,
		limiter:   limiter,
		lexoffice: lexoffice,
		gateway:   app.NewGateway(app.GatewayConfig{Client: lexoffice}),
	}, nil
}

// opsServer starts the ops listener's router in front of s.
func (s *stack) opsServer() (*httptest.Server, error) {
	registry := ports.NewHealthRegistry(2 * time.Second)
	if err := registry.Register(s.lexoffice); err != nil {
		return nil, err
	}

	gin.SetMode(gin.TestMode)

	engine := gin.New()
	ophttp.SetupRouter(engine, ophttp.RouterConfig{
		ServiceName:   "lexoffice-gateway",
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", "now"), nil),
	})

	return httptest.NewServer(engine), nil
}
