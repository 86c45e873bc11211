package config

import (
	"fmt"
	"time"

	"github.com/unitrack/unitrack/credentials"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/logger"
	"github.com/unitrack/unitrack/observability"
)

// AppName is the application name used for file search and the env prefix.
const AppName = "unitrack"

// App is the full CLI configuration.
type App struct {
	API         httpclient.Config    `yaml:"api" mapstructure:"api"`
	Credentials credentials.Config   `yaml:"credentials" mapstructure:"credentials"`
	Logging     logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry   observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// AppDefaults are the loader defaults for App.
func AppDefaults() map[string]any {
	return map[string]any{
		"api.base_url":          httpclient.DefaultBaseURL,
		"api.timeout":           30 * time.Second,
		"logging.level":         "warn",
		"logging.format":        "console",
		"logging.output":        "stderr",
		"telemetry.enabled":     false,
		"telemetry.sample_rate": 1.0,
	}
}

// ApplyDefaults fills in zero values of every section.
func (c *App) ApplyDefaults() {
	c.API.ApplyDefaults()
	c.Credentials.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section, naming the section that failed.
func (c *App) Validate() error {
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("config.api: %w", err)
	}
	if err := c.Credentials.Validate(); err != nil {
		return fmt.Errorf("config.credentials: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	return nil
}

// Load reads, defaults and validates the App configuration.
func Load(opts ...LoaderOption) (*App, error) {
	var cfg App
	opts = append([]LoaderOption{WithDefaults(AppDefaults())}, opts...)
	if err := LoadConfig(AppName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
