package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"ulavan-storefront/models"
)

// fileState is the on-disk layout: the two persistent keys only. The draft
// address deliberately has no field here.
type fileState struct {
	Token string       `json:"token,omitempty"`
	User  *models.User `json:"user,omitempty"`
}

// FileStore persists the token and user snapshot to a JSON key file, the
// terminal equivalent of browser localStorage. The checkout draft address is
// held in memory only, so it dies with the process like sessionStorage.
type FileStore struct {
	path string

	mu    sync.Mutex
	state fileState
	draft *models.DraftAddress
}

// NewFileStore opens (or lazily creates) the key file at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.state); err != nil {
			// A corrupt session file means a fresh anonymous session, not
			// a dead storefront.
			s.state = fileState{}
		}
	}
	return s, nil
}

func (s *FileStore) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	return s.flush()
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *FileStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	return s.flush()
}

func (s *FileStore) SaveUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = user
	return s.flush()
}

func (s *FileStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User
}

func (s *FileStore) ClearUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = nil
	return s.flush()
}

func (s *FileStore) SaveDraftAddress(addr *models.DraftAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = addr
	return nil
}

func (s *FileStore) DraftAddress() *models.DraftAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *FileStore) ClearDraftAddress() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	return nil
}

// flush writes the persistent keys. Callers hold s.mu.
func (s *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
