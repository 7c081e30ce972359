// Package main runs the Lexoffice gateway: it wires the rate-limited,
// retrying Lexoffice client behind the application facade and serves the
// ops listener until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"
	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients/acl"
	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/http"
	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/http/handlers"
	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/http/middleware"
	"github.com/jsamuelsen/lexoffice-gateway/internal/app"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/config"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/telemetry"
	"github.com/jsamuelsen/lexoffice-gateway/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the gateway.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast, e.g. on a missing token)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting gateway",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("lexoffice_url", cfg.Lexoffice.URL),
	)

	// 4. Initialize telemetry (propagators only if disabled)
	telProvider, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg.App, cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	gatewayMetrics, err := telemetry.NewGatewayMetrics(telProvider.MeterProvider())
	if err != nil {
		return fmt.Errorf("creating gateway metrics: %w", err)
	}

	// 5. Lexoffice transport, one shared limiter and the retry coordinator
	transport, err := clients.New(&clients.Config{
		BaseURL:     cfg.Lexoffice.URL,
		ServiceName: cfg.Lexoffice.Name,
		Timeout:     cfg.Client.Timeout,
		Transport:   cfg.Client.Transport,
		AuthFunc:    clients.BearerAuth(cfg.Lexoffice.Token),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating Lexoffice transport: %w", err)
	}

	limiter, err := clients.NewRateLimiter(clients.RateLimiterConfig{
		Requests: cfg.Lexoffice.Rate.Requests,
		Window:   cfg.Lexoffice.Rate.Window,
		Burst:    cfg.Lexoffice.Rate.Burst,
	})
	if err != nil {
		return fmt.Errorf("creating rate limiter: %w", err)
	}

	limiter.OnWait(gatewayMetrics.RecordLimiterWait)

	coordinator := acl.NewCoordinator(acl.CoordinatorConfig{
		Transport: transport,
		Limiter:   limiter,
		Policy:    acl.RetryPolicyFromConfig(cfg.Client.Retry),
		Metrics:   gatewayMetrics,
		Logger:    logger,
	})

	lexoffice := acl.NewLexoffice(acl.LexofficeConfig{
		Coordinator: coordinator,
		Name:        cfg.Lexoffice.Name,
		Logger:      logger,
	})

	// 6. Application facade
	gateway := app.NewGateway(app.GatewayConfig{
		Client:  lexoffice,
		Metrics: gatewayMetrics,
	})

	// 7. Health checks and the metrics registry served at /-/metrics
	healthRegistry := ports.NewHealthRegistry(cfg.Client.Timeout)
	if err := healthRegistry.Register(lexoffice); err != nil {
		return fmt.Errorf("registering Lexoffice health check: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		clients.NewLimiterCollector(limiter),
	)

	// 8. Ops listener
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, promRegistry)

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:   cfg.App.Name,
		HealthHandler: healthHandler,
	})

	serverErr := server.Start()

	go verifyAccount(ctx, logger, gateway, cfg.Client.Timeout)

	// 9. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// verifyAccount fetches the profile once so a bad token shows up in the
// startup logs rather than at the first readiness probe.
func verifyAccount(ctx context.Context, logger *slog.Logger, gateway ports.Gateway, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(middleware.WithCorrelation(ctx, ""), timeout)
	defer cancel()

	profile, err := gateway.GetProfile(ctx)
	if err != nil {
		logger.Warn("Lexoffice account check failed", slog.Any("error", err))
		return
	}

	logger.Info("connected to Lexoffice",
		slog.String("organization", profile.OrganizationName),
		slog.String("organization_id", profile.OrganizationID.String()),
	)
}

// waitForShutdown blocks until a shutdown signal is received or the ops
// listener fails, then shuts the listener down gracefully.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
