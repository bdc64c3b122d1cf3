package session

import (
	"sync"

	"ulavan-storefront/models"
)

// MemoryStore keeps the whole session in memory. Tests and one-shot
// programs use it; nothing survives the process.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  *models.User
	draft *models.DraftAddress
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MemoryStore) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *MemoryStore) SaveUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	return nil
}

func (m *MemoryStore) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *MemoryStore) ClearUser() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}

func (m *MemoryStore) SaveDraftAddress(addr *models.DraftAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = addr
	return nil
}

func (m *MemoryStore) DraftAddress() *models.DraftAddress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

func (m *MemoryStore) ClearDraftAddress() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = nil
	return nil
}
