package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/unitrack/unitrack/resilience"
	"github.com/unitrack/unitrack/security"
	"github.com/unitrack/unitrack/version"
)

const (
	defaultTimeout = 30 * time.Second
	defaultName    = "unitrack-api"

	// DefaultBaseURL is the production API root, including the version prefix.
	DefaultBaseURL = "https://unitrack.definetlynotlocalhost.space/v1"
)

// TLSConfig is an alias for the shared security TLS configuration.
type TLSConfig = security.TLSConfig

// Config configures the HTTP client.
type Config struct {
	// Name identifies the client in logs, spans and metrics.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the versioned API root every request path is appended to.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a whole exchange. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// UserAgent overrides the default unitrack-go/<version> agent.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// RateLimiter paces outgoing calls. Nil disables it. A limited call waits
	// for a token; it is never dropped or sent twice.
	RateLimiter *resilience.RateLimiterConfig `yaml:"rate_limiter" mapstructure:"rate_limiter"`

	// MaxConcurrent caps requests in flight. Zero means no cap. Excess calls
	// queue until a slot frees or their context ends.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = "unitrack-go/" + version.Short()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("httpclient: invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("httpclient: base_url must be http or https (got: %q)", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("httpclient: base_url has no host (got: %q)", c.BaseURL)
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("httpclient: max_concurrent must not be negative")
	}
	if c.RateLimiter != nil && c.RateLimiter.Rate < 0 {
		return fmt.Errorf("httpclient: rate_limiter.rate must not be negative")
	}
	return nil
}
