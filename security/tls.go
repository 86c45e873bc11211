package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSConfig configures the client side of a TLS connection.
type TLSConfig struct {
	// Insecure disables server certificate verification. Local development only.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	// CAFile is a PEM bundle that replaces the system roots.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile and KeyFile present a client certificate. Both or neither.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the name checked against the server certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`

	// MinVersion is "1.2" or "1.3". Empty means 1.2.
	MinVersion string `yaml:"min_version" mapstructure:"min_version"`
}

var tlsVersions = map[string]uint16{
	"":    tls.VersionTLS12,
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// Build returns the *tls.Config for these settings, or nil when nothing is
// configured and the transport default should stay in place.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.Insecure, //nolint:gosec // opt-in for local backends
		ServerName:         c.ServerName,
		MinVersion:         tlsVersions[c.MinVersion],
	}
	if c.CAFile != "" {
		pool, err := loadPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}
	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("security: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// Validate checks the settings without touching the filesystem.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("security: cert_file and key_file must be set together")
	}
	if _, ok := tlsVersions[c.MinVersion]; !ok {
		return fmt.Errorf("security: unsupported min_version %q (want 1.2 or 1.3)", c.MinVersion)
	}
	return nil
}

// Enabled reports whether any setting differs from the zero value.
func (c *TLSConfig) Enabled() bool {
	if c == nil {
		return false
	}
	return c.Insecure || c.CAFile != "" || c.CertFile != "" || c.KeyFile != "" ||
		c.ServerName != "" || c.MinVersion != ""
}

func loadPool(path string) (*x509.CertPool, error) {
	pemData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("security: read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("security: no certificates found in %s", path)
	}
	return pool, nil
}
