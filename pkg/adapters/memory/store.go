package memory

import (
	"context"
	"sync"

	"github.com/aretw0/companion/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.EditorSession
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.EditorSession),
	}
}

// Save overwrites the record stored under key.
func (s *Store) Save(ctx context.Context, key string, session *domain.EditorSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = *session
	return nil
}

// Load retrieves a copy of the record stored under key.
func (s *Store) Load(ctx context.Context, key string) (*domain.EditorSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}
