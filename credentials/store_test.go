package credentials

import (
	"sync"
	"testing"

	"github.com/unitrack/unitrack/httpclient"
)

var _ httpclient.TokenSource = (Store)(nil)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if Has(s) || s.RefreshToken() != "" {
		t.Fatal("expected empty store")
	}

	if err := Save(s, Pair{AccessToken: "T", RefreshToken: "R"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Token() != "T" || s.RefreshToken() != "R" {
		t.Errorf("expected T/R, got %q/%q", s.Token(), s.RefreshToken())
	}

	_ = s.SetToken("T2")
	if s.Token() != "T2" || s.RefreshToken() != "R" {
		t.Errorf("expected only the access token replaced, got %q/%q", s.Token(), s.RefreshToken())
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Token() != "" || s.RefreshToken() != "" {
		t.Error("expected both tokens cleared")
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = Save(s, Pair{AccessToken: "a", RefreshToken: "b"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			_ = s.RefreshToken()
		}()
	}
	wg.Wait()
	if s.Token() != "a" {
		t.Errorf("expected a, got %q", s.Token())
	}
}

func TestHas_Nil(t *testing.T) {
	if Has(nil) {
		t.Error("expected false for nil store")
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("expected MemoryStore, got %T", s)
	}

	s, err = Open(Config{Path: t.TempDir() + "/creds.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("expected FileStore, got %T", s)
	}

	if _, err := Open(Config{InMemory: true, Cipher: "rot13"}); err == nil {
		t.Error("expected error for unknown cipher")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Path == "" {
		t.Error("expected a default path")
	}
}
