package observability

import (
	"fmt"
	"time"
)

// Config configures tracing and metrics export. Telemetry is off unless
// Enabled is set; instruments then record into no-op providers.
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string        `yaml:"service_version" mapstructure:"service_version"`
	Environment    string        `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows plain HTTP export (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultConfig returns sensible defaults for local development.
func DefaultConfig(serviceName string) Config {
	return Config{
		ServiceName: serviceName,
		Environment: "development",
		Endpoint:    "localhost:4318",
		Insecure:    true,
		SampleRate:  1.0,
		Interval:    15 * time.Second,
	}
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig(c.ServiceName)
	if c.ServiceName == "" {
		c.ServiceName = "unitrack-cli"
	}
	if c.Environment == "" {
		c.Environment = d.Environment
	}
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("telemetry.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}
	return nil
}
