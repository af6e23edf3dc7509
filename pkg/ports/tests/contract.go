package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/companion/pkg/domain"
	"github.com/aretw0/companion/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()
	key := "contract-" + time.Now().Format(domain.Stamp)

	t.Run("Save and Load", func(t *testing.T) {
		rec := &domain.EditorSession{ID: "abc", Folder: "/tmp/ws", CreatedAt: time.Now().UTC()}
		require.NoError(t, store.Save(ctx, key, rec))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, loaded.ID)
		assert.Equal(t, rec.Folder, loaded.Folder)
		assert.True(t, rec.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, &domain.EditorSession{ID: "first", Folder: "/a"}))
		require.NoError(t, store.Save(ctx, key, &domain.EditorSession{ID: "second", Folder: "/b"}))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", loaded.ID)
		assert.Equal(t, "/b", loaded.Folder)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, &domain.EditorSession{ID: "orig", Folder: "/c"}))
		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded.Folder = "/mutated"

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "/c", again.Folder)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, &domain.EditorSession{ID: "x"}))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+"-1", key+"-2"
		_ = store.Save(ctx, k1, &domain.EditorSession{ID: "1"})
		_ = store.Save(ctx, k2, &domain.EditorSession{ID: "2"})
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
