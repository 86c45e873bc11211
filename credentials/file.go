package credentials

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/unitrack/unitrack/encryption"
	"github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/logger"
)

// FileStore persists tokens to a JSON object keyed by TokenKey and
// RefreshTokenKey. Reads are served from memory; every write rewrites the
// file through a temp file and rename.
type FileStore struct {
	path string
	enc  encryption.Encryptor
	log  *logger.Logger

	mu     sync.RWMutex
	values map[string]string
}

// OpenFile loads the credentials file named by cfg, creating nothing until
// the first write. A missing file is an empty store.
func OpenFile(cfg Config) (*FileStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Storage(err)
	}

	s := &FileStore{
		path:   cfg.Path,
		log:    logger.Get("credentials"),
		values: map[string]string{},
	}
	if cfg.Passphrase != "" {
		alg, _ := encryption.ParseAlgorithm(cfg.Cipher)
		enc, err := encryption.New(cfg.Passphrase, encryption.WithAlgorithm(alg))
		if err != nil {
			return nil, errors.Storage(err)
		}
		s.enc = enc
	}
	if err := s.load(); err != nil {
		return nil, errors.Storage(err)
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Token() string {
	return s.get(TokenKey)
}

func (s *FileStore) SetToken(token string) error {
	return s.write(map[string]string{TokenKey: token})
}

func (s *FileStore) RefreshToken() string {
	return s.get(RefreshTokenKey)
}

func (s *FileStore) SetRefreshToken(token string) error {
	return s.write(map[string]string{RefreshTokenKey: token})
}

func (s *FileStore) Clear() error {
	return s.setPair(Pair{})
}

func (s *FileStore) setPair(p Pair) error {
	return s.write(map[string]string{TokenKey: p.AccessToken, RefreshTokenKey: p.RefreshToken})
}

func (s *FileStore) get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// write applies updates, where an empty value deletes the key, and persists.
// Memory is only updated once the file is written.
func (s *FileStore) write(updates map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.values)+len(updates))
	for k, v := range s.values {
		next[k] = v
	}
	for k, v := range updates {
		if v == "" {
			delete(next, k)
		} else {
			next[k] = v
		}
	}
	if err := s.persist(next); err != nil {
		s.log.WithError(err).Warn("credentials not saved", logger.Fields("path", s.path))
		return errors.Storage(err)
	}
	s.values = next
	return nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	for _, key := range []string{TokenKey, RefreshTokenKey} {
		v, ok := stored[key]
		if !ok || v == "" {
			continue
		}
		if s.enc != nil {
			if v, err = s.enc.Decrypt(v); err != nil {
				return fmt.Errorf("open %s: %w", key, err)
			}
		}
		s.values[key] = v
	}
	return nil
}

func (s *FileStore) persist(values map[string]string) error {
	if len(values) == 0 {
		if err := os.Remove(s.path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}

	out := make(map[string]string, len(values))
	for k, v := range values {
		if s.enc != nil {
			sealed, err := s.enc.Encrypt(v)
			if err != nil {
				return err
			}
			v = sealed
		}
		out[k] = v
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
