package credentials

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/unitrack/unitrack/encryption"
)

const fileName = "credentials.json"

// Config selects and configures the credential store.
type Config struct {
	// Path of the credentials file. Defaults to <user config dir>/unitrack/credentials.json.
	Path string `yaml:"path" mapstructure:"path"`

	// Passphrase seals stored values. Empty stores them in clear text,
	// protected only by the file mode.
	Passphrase string `yaml:"passphrase" mapstructure:"passphrase"`

	// Cipher is chacha20-poly1305 (default) or aes-256-gcm.
	Cipher string `yaml:"cipher" mapstructure:"cipher"`

	// InMemory keeps tokens for the life of the process only.
	InMemory bool `yaml:"in_memory" mapstructure:"in_memory"`
}

// ApplyDefaults fills in the file path.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath()
	}
}

// Validate checks the cipher name.
func (c *Config) Validate() error {
	if _, err := encryption.ParseAlgorithm(c.Cipher); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("credentials: path is required")
	}
	return nil
}

// DefaultPath returns the per-user credentials file location, falling back
// to the working directory when the platform has no config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".unitrack", fileName)
	}
	return filepath.Join(dir, "unitrack", fileName)
}
