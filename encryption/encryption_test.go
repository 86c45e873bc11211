package encryption

import (
	"encoding/base64"
	"errors"
	"testing"
)

var algorithms = []Algorithm{ChaCha20, AESGCM}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig",
		"こんにちは世界",
		`{"refreshToken":"abc"}`,
	}
	for _, alg := range algorithms {
		enc, err := New("correct horse", WithAlgorithm(alg))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", alg, err)
		}
		for _, in := range inputs {
			sealed, err := enc.Encrypt(in)
			if err != nil {
				t.Fatalf("%s: encrypt: %v", alg, err)
			}
			if in != "" && sealed == in {
				t.Errorf("%s: expected ciphertext to differ from plaintext", alg)
			}
			got, err := enc.Decrypt(sealed)
			if err != nil {
				t.Fatalf("%s: decrypt: %v", alg, err)
			}
			if got != in {
				t.Errorf("%s: expected %q, got %q", alg, in, got)
			}
		}
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	enc, _ := New("k")
	a, _ := enc.Encrypt("same")
	b, _ := enc.Encrypt("same")
	if a == b {
		t.Error("expected different ciphertexts for the same input")
	}
}

func TestDecrypt_Corrupt(t *testing.T) {
	enc, _ := New("one")
	other, _ := New("two")
	aes, _ := New("one", WithAlgorithm(AESGCM))
	sealed, _ := enc.Encrypt("secret")

	raw, _ := base64.StdEncoding.DecodeString(sealed)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name string
		dec  Encryptor
		in   string
	}{
		{"wrong passphrase", other, sealed},
		{"wrong algorithm", aes, sealed},
		{"not base64", enc, "!!!"},
		{"too short", enc, "YQ=="},
		{"tampered", enc, tampered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.dec.Decrypt(tt.in)
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrNoPassphrase) {
		t.Errorf("expected ErrNoPassphrase, got %v", err)
	}
	if _, err := New("k", WithAlgorithm("rot13")); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", ChaCha20, false},
		{"chacha20-poly1305", ChaCha20, false},
		{"aes-256-gcm", AESGCM, false},
		{"des", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseAlgorithm(%q): expected %q err=%v, got %q %v", tt.in, tt.want, tt.wantErr, got, err)
		}
	}
}
