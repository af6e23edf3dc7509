package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/ports/tests"
)

// MockStore is a map-backed SessionStore used to check the contract suite itself.
type MockStore struct {
	data map[string]domain.EditorSession
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]domain.EditorSession)}
}

func (m *MockStore) Save(ctx context.Context, key string, s *domain.EditorSession) error {
	m.data[key] = *s
	return nil
}

func (m *MockStore) Load(ctx context.Context, key string) (*domain.EditorSession, error) {
	s, ok := m.data[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func TestMockStore_Contract(t *testing.T) {
	tests.RunSessionStoreContract(t, NewMockStore())
}
