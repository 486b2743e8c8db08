package session

import (
	"context"
	"testing"

	"github.com/claritysync/notioncenter/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(storage.NewMemoryKV())
}

func TestStore_ConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	_, err := store.Connection(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)

	conn := Connection{
		AccessToken:   "secret-token",
		WorkspaceID:   "ws-123",
		WorkspaceName: "Student Workspace",
	}
	require.NoError(t, store.SaveConnection(ctx, conn))

	loaded, err := store.Connection(ctx)
	require.NoError(t, err)
	assert.Equal(t, conn, loaded)

	token, err := store.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	store := newTestStore()
	err := store.SaveConnection(context.Background(), Connection{WorkspaceID: "ws"})
	assert.Error(t, err)
}

func TestStore_DatabaseSelection(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	_, err := store.DatabaseID(ctx)
	assert.ErrorIs(t, err, ErrNoDatabase)

	assert.Error(t, store.SetDatabaseID(ctx, ""))

	require.NoError(t, store.SetDatabaseID(ctx, "1429989fe8ac4effbc8f57f56486db54"))
	id, err := store.DatabaseID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1429989fe8ac4effbc8f57f56486db54", id)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.SaveConnection(ctx, Connection{AccessToken: "tok"}))
	require.NoError(t, store.SetDatabaseID(ctx, "deadbeefdeadbeefdeadbeefdeadbeef"))

	require.NoError(t, store.Clear(ctx))

	_, err := store.AccessToken(ctx)
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = store.DatabaseID(ctx)
	assert.ErrorIs(t, err, ErrNoDatabase)
}
