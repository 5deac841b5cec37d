package tokenstore

import "sync"

// MemoryStore implements Store with in-memory storage. Zero value is not
// usable; construct with NewMemoryStore.
type MemoryStore struct {
	mu      sync.RWMutex
	token   Token
	present bool
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

// Set replaces the stored token pair.
func (m *MemoryStore) Set(token Token) error {
	if !token.Valid() {
		return ErrEmptyAccessToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.present = true
	return nil
}

// Get returns the stored token pair and whether one is present.
func (m *MemoryStore) Get() (Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return Token{}, false
	}
	return m.token, true
}

// Clear removes the token pair.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = Token{}
	m.present = false
	return nil
}
