package session

import "sync"

// Keys for persisted local state. Cleared on sign-out except the
// onboarding flag, which survives account switches.
const (
	KeyAuthToken          = "gas_auth_token"
	KeyUserRole           = "gas_user_role"
	KeyOnboardingComplete = "gas_onboarding_complete"
)

// Store persists small key/value state across app launches (the browser
// original used localStorage).
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryStore is an in-process Store, the default when no persistence is
// wired in. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}
