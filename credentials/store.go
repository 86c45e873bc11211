package credentials

import (
	"sync"

	"github.com/unitrack/unitrack/errors"
)

// Keys under which the tokens are persisted.
const (
	TokenKey        = "com.unitrack.auth.token"
	RefreshTokenKey = "com.unitrack.auth.refreshToken"
)

// Store holds the session tokens. An empty string means absent. Each field is
// written atomically; concurrent writers race and the last one wins.
type Store interface {
	Token() string
	SetToken(token string) error
	RefreshToken() string
	SetRefreshToken(token string) error
	// Clear removes both tokens together.
	Clear() error
}

// Pair is the token pair returned by login, signup and refresh.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

type pairWriter interface {
	setPair(p Pair) error
}

// Save writes both tokens. Stores that can persist them in one write do so.
func Save(s Store, p Pair) error {
	if pw, ok := s.(pairWriter); ok {
		return pw.setPair(p)
	}
	if err := s.SetToken(p.AccessToken); err != nil {
		return err
	}
	return s.SetRefreshToken(p.RefreshToken)
}

// Has reports whether an access token is stored.
func Has(s Store) bool {
	return s != nil && s.Token() != ""
}

// MemoryStore is a Store that lives for the process.
type MemoryStore struct {
	mu      sync.RWMutex
	token   string
	refresh string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

func (m *MemoryStore) SetRefreshToken(token string) error {
	m.mu.Lock()
	m.refresh = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.setPair(Pair{})
}

func (m *MemoryStore) setPair(p Pair) error {
	m.mu.Lock()
	m.token, m.refresh = p.AccessToken, p.RefreshToken
	m.mu.Unlock()
	return nil
}

// Open returns the store described by cfg: a MemoryStore when cfg.InMemory is
// set, otherwise a FileStore.
func Open(cfg Config) (Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Storage(err)
	}
	if cfg.InMemory {
		return NewMemoryStore(), nil
	}
	return OpenFile(cfg)
}
