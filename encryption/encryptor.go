package encryption

import (
	"errors"
	"fmt"
)

// ErrNoPassphrase is returned by New for an empty passphrase.
var ErrNoPassphrase = errors.New("encryption: passphrase is empty")

// Encryptor seals and opens strings. Output is base64 text safe to store in
// JSON or YAML.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Algorithm names a supported cipher.
type Algorithm string

const (
	ChaCha20 Algorithm = "chacha20-poly1305"
	AESGCM   Algorithm = "aes-256-gcm"
)

// ParseAlgorithm maps a config value to an Algorithm. Empty selects ChaCha20.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", ChaCha20:
		return ChaCha20, nil
	case AESGCM:
		return AESGCM, nil
	}
	return "", fmt.Errorf("encryption: unknown algorithm %q", s)
}

// Option configures New.
type Option func(*options)

type options struct {
	algorithm Algorithm
}

// WithAlgorithm selects the cipher. Defaults to ChaCha20.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// New returns an Encryptor keyed from passphrase.
func New(passphrase string, opts ...Option) (Encryptor, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	o := options{algorithm: ChaCha20}
	for _, opt := range opts {
		opt(&o)
	}

	switch o.algorithm {
	case ChaCha20:
		return newChaCha20(passphrase)
	case AESGCM:
		return newAESGCM(passphrase)
	default:
		return nil, fmt.Errorf("encryption: unknown algorithm %q", o.algorithm)
	}
}
