package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SessionStore persists the login session between client instances. The
// token and the user record are stored as two entries, and a session is
// only restored when both are present.
type SessionStore interface {
	Save(token string, user *User) error
	Restore() (string, *User, error)
	Clear() error
}

type memorySessionStore struct {
	mu    sync.Mutex
	token string
	user  *User
}

// NewMemorySessionStore keeps the session in memory only.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{}
}

func (s *memorySessionStore) Save(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	return nil
}

func (s *memorySessionStore) Restore() (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.user == nil {
		return "", nil, nil
	}
	user := *s.user
	return s.token, &user, nil
}

func (s *memorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

const (
	sessionTokenFile = "token"
	sessionUserFile  = "user.json"
)

type fileSessionStore struct {
	dir string
}

// NewFileSessionStore persists the session in dir, creating it as needed.
func NewFileSessionStore(dir string) (SessionStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &fileSessionStore{dir: dir}, nil
}

func (s *fileSessionStore) Save(token string, user *User) error {
	userPayload, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, sessionTokenFile), []byte(token), 0o600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, sessionUserFile), userPayload, 0o600)
}

func (s *fileSessionStore) Restore() (string, *User, error) {
	token, err := os.ReadFile(filepath.Join(s.dir, sessionTokenFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, err
	}

	userPayload, err := os.ReadFile(filepath.Join(s.dir, sessionUserFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, err
	}

	var user User
	if err := json.Unmarshal(userPayload, &user); err != nil {
		// A corrupt session is the same as no session.
		return "", nil, nil
	}

	return string(token), &user, nil
}

func (s *fileSessionStore) Clear() error {
	for _, name := range []string{sessionTokenFile, sessionUserFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
