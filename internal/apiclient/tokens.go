package apiclient

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// TokenKey is the key the bearer token is stored under.
const TokenKey = "access_token"

// TokenStore keeps the signed-in user's bearer token between calls.
type TokenStore interface {
	Token() string
	Save(token string) error
	Clear() error
}

// FileStore persists the token as {"access_token": "..."} in a JSON file.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

// DefaultTokenPath is ~/.commerce/token.json, or ./.commerce-token.json when
// there is no home directory.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".commerce-token.json"
	}
	return filepath.Join(home, ".commerce", "token.json")
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return ""
	}
	var m map[string]string
	if json.Unmarshal(b, &m) != nil {
		return ""
	}
	return m[TokenKey]
}

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(map[string]string{TokenKey: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, b, 0o600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error { return s.Save("") }
