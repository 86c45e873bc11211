package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCorrupt means a ciphertext failed to decode or authenticate: it was
// truncated, tampered with, or sealed under a different passphrase.
var ErrCorrupt = errors.New("encryption: ciphertext is corrupt or the passphrase is wrong")

// sealer implements Encryptor over any AEAD. The output is
// base64(nonce || sealed).
type sealer struct {
	aead cipher.AEAD
}

// deriveKey stretches the passphrase to 32 bytes.
func deriveKey(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}

func newChaCha20(passphrase string) (*sealer, error) {
	aead, err := chacha20poly1305.New(deriveKey(passphrase))
	if err != nil {
		return nil, fmt.Errorf("encryption: chacha20: %w", err)
	}
	return &sealer{aead: aead}, nil
}

func newAESGCM(passphrase string) (*sealer, error) {
	block, err := aes.NewCipher(deriveKey(passphrase))
	if err != nil {
		return nil, fmt.Errorf("encryption: aes: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encryption: gcm: %w", err)
	}
	return &sealer{aead: aead}, nil
}

func (s *sealer) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("encryption: nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *sealer) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	n := s.aead.NonceSize()
	if len(data) < n+s.aead.Overhead() {
		return "", ErrCorrupt
	}
	plain, err := s.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", ErrCorrupt
	}
	return string(plain), nil
}
