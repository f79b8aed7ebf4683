// Package session holds the bearer token between invocations.
//
// The token is the only cross-cutting mutable state the client carries: it is
// read on every outbound call and written on login, logout, and forced clears
// after an authorization failure. Last writer wins.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store exposes the persisted bearer token.
type Store interface {
	// Get returns the current token, if any. A present token is not a
	// guarantee it is still valid server-side.
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// FileStore persists the token to a single file, the CLI analog of
// browser-local storage.
type FileStore struct {
	path string

	mu     sync.Mutex
	token  string
	loaded bool
}

// NewFileStore builds a store backed by the file at path.
// The file is created lazily on the first Set.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("session: token path is required")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		data, err := os.ReadFile(s.path)
		if err == nil {
			s.token = strings.TrimSpace(string(data))
		}
		s.loaded = true
	}
	if s.token == "" {
		return "", false
	}
	return s.token, true
}

func (s *FileStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session: refusing to store empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	s.token = token
	s.loaded = true
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests and embedding.
type MemStore struct {
	mu    sync.Mutex
	token string
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
