package ports

import (
	"context"

	"github.com/aretw0/companion/pkg/domain"
)

// SessionStore defines the interface for keeping editor session records.
// Records live for the lifetime of the process.
type SessionStore interface {
	// Save overwrites the record stored under key.
	Save(ctx context.Context, key string, session *domain.EditorSession) error

	// Load retrieves the record stored under key.
	// Returns domain.ErrSessionNotFound if there is none.
	Load(ctx context.Context, key string) (*domain.EditorSession, error)

	// Delete removes the record stored under key.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored records.
	List(ctx context.Context) ([]string, error)
}
