// Package telemetry provides OpenTelemetry tracing and metrics for the
// gateway: one span per Lexoffice attempt, operation and retry metrics, and
// otelgin instrumentation on the ops listener.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	metricapi "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/config"
	"github.com/jsamuelsen/lexoffice-gateway/internal/platform/logging"
)

const (
	flushTimeout   = 5 * time.Second
	exportInterval = 30 * time.Second
)

// Config holds telemetry configuration.
type Config struct {
	Enabled      bool
	Endpoint     string
	ServiceName  string
	Version      string
	Environment  string
	SamplingRate float64
}

// ConfigFrom combines the app identity with the telemetry section.
// The service name falls back to the app name.
func ConfigFrom(app config.AppConfig, t config.TelemetryConfig) *Config {
	name := t.ServiceName
	if name == "" {
		name = app.Name
	}

	return &Config{
		Enabled:      t.Enabled,
		Endpoint:     t.Endpoint,
		ServiceName:  name,
		Version:      app.Version,
		Environment:  app.Environment,
		SamplingRate: t.SamplingRate,
	}
}

// Provider owns the SDK providers. The zero value is the disabled provider.
type Provider struct {
	tracers *sdktrace.TracerProvider
	meters  *sdkmetric.MeterProvider
}

// New installs the W3C propagators and, when enabled, OTLP/gRPC trace and
// metric providers as the otel globals. Exporter errors are logged through
// the context logger instead of the otel default (stderr).
func New(ctx context.Context, cfg *Config) (*Provider, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return &Provider{}, nil
	}

	logger := logging.FromContext(ctx)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		logger.Warn("telemetry export failed", slog.String("error", err.Error()))
	}))

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	tracers, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	meters, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		_ = tracers.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(tracers)
	otel.SetMeterProvider(meters)

	logger.Info("telemetry enabled",
		slog.String("endpoint", cfg.Endpoint),
		slog.Float64("sampling_rate", cfg.SamplingRate),
	)

	return &Provider{tracers: tracers, meters: meters}, nil
}

func newResource(cfg *Config) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	return res, nil
}

func newTracerProvider(ctx context.Context, cfg *Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	// Lexoffice spans are children of the caller's span when there is one,
	// so only roots are sampled by ratio.
	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sampler),
	), nil
}

func newMeterProvider(ctx context.Context, cfg *Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))

	return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader)), nil
}

// Enabled reports whether spans and metrics are exported.
func (p *Provider) Enabled() bool {
	return p.tracers != nil
}

// MeterProvider returns the SDK meter provider, or the global one when
// telemetry is disabled.
func (p *Provider) MeterProvider() metricapi.MeterProvider {
	if p.meters == nil {
		return otel.GetMeterProvider()
	}

	return p.meters
}

// ForceFlush exports pending spans and metrics without stopping the providers.
func (p *Provider) ForceFlush(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}

	return errors.Join(p.tracers.ForceFlush(ctx), p.meters.ForceFlush(ctx))
}

// Shutdown flushes and stops the providers, waiting at most five seconds.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	err := errors.Join(p.tracers.Shutdown(ctx), p.meters.Shutdown(ctx))
	if err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}

	return nil
}
