package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "lexoffice-gateway", Version: "1.0.0", Environment: "test"},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxRetries:      3,
				InitialInterval: time.Second,
				MaxInterval:     30 * time.Second,
				Multiplier:      2,
			},
			Transport: TransportConfig{MaxIdleConns: 100, MaxIdleConnsPerHost: 10, IdleConnTimeout: 90 * time.Second},
		},
		Lexoffice: LexofficeConfig{
			URL:   DefaultLexofficeBaseURL,
			Token: "test-token",
			Name:  "lexoffice",
			Rate:  RateLimitConfig{Requests: 2, Window: time.Second, Burst: 1},
		},
	}
}

func TestValidate_Accepts(t *testing.T) {
	tests := map[string]func(*Config){
		"defaults": func(*Config) {},
		"trace level and pretty format": func(c *Config) {
			c.Log.Level = "trace"
			c.Log.Format = "pretty"
		},
		"log file": func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/gateway.log", MaxSizeMB: 10}
		},
		"telemetry": func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "http://localhost:4317", ServiceName: "gw", SamplingRate: 0.5}
		},
		"no retries": func(c *Config) { c.Client.Retry.MaxRetries = 0 },
		"burst equal to budget": func(c *Config) {
			c.Lexoffice.Rate.Burst = 2
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing token", func(c *Config) { c.Lexoffice.Token = "" }, "lexoffice.token is required"},
		{"relative url", func(c *Config) { c.Lexoffice.URL = "api.lexoffice.io" }, "lexoffice.url must be a valid URL"},
		{"zero budget", func(c *Config) { c.Lexoffice.Rate.Requests = 0 }, "lexoffice.rate.requests is required"},
		{"burst above budget", func(c *Config) { c.Lexoffice.Rate.Burst = 3 }, "lexoffice.rate.burst must be at most"},
		{"negative retries", func(c *Config) { c.Client.Retry.MaxRetries = -1 }, "client.retry.max_retries must be at least 0"},
		{"too many retries", func(c *Config) { c.Client.Retry.MaxRetries = 11 }, "client.retry.max_retries must be at most 10"},
		{"cap below first delay", func(c *Config) { c.Client.Retry.MaxInterval = time.Millisecond }, "client.retry.max_interval must be at least"},
		{"shrinking backoff", func(c *Config) { c.Client.Retry.Multiplier = 0.5 }, "client.retry.multiplier must be at least 1"},
		{"jitter above one", func(c *Config) { c.Client.Retry.JitterFactor = 1.5 }, "client.retry.jitter_factor must be at most 1"},
		{"tiny client timeout", func(c *Config) { c.Client.Timeout = 50 * time.Millisecond }, "client.timeout must be at least"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port must be at most 65535"},
		{"short read timeout", func(c *Config) { c.Server.ReadTimeout = time.Millisecond }, "server.read_timeout must be at least"},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, "app.environment must be one of"},
		{"uppercase level", func(c *Config) { c.Log.Level = "DEBUG" }, "log.level must be one of"},
		{"log file without path", func(c *Config) { c.Log.File.Enabled = true }, "log.file.path is required when"},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "gw"}
		}, "telemetry.endpoint is required when"},
		{"sampling above one", func(c *Config) { c.Telemetry.SamplingRate = 2 }, "telemetry.sampling_rate must be at most 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryFailure(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Lexoffice.Token = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.name is required")
	assert.Contains(t, err.Error(), "lexoffice.token is required")
}

func TestFieldKey(t *testing.T) {
	assert.Equal(t, "client.retry.max_retries", fieldKey("Config.client.retry.max_retries"))
	assert.Equal(t, "Config", fieldKey("Config"))
}
