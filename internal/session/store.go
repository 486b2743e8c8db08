// Package session persists the connection state the widget needs between
// runs: the Notion access credential, the workspace it belongs to, and the
// database the user selected. It is a thin layer over an injected
// storage.KV, so hosts decide where the state lives.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/claritysync/notioncenter/internal/storage"
)

// Storage keys, named after the original widget's persisted settings.
const (
	keyAccessToken   = "notionAccessToken"
	keyWorkspaceID   = "notionWorkspaceId"
	keyWorkspaceName = "notionWorkspaceName"
	keyDatabaseID    = "notionDatabaseId"
)

// ErrNotConnected indicates no access credential has been stored yet.
var ErrNotConnected = errors.New("session: not connected to notion")

// ErrNoDatabase indicates no database has been selected yet.
var ErrNoDatabase = errors.New("session: no database selected")

// Connection is the stored OAuth result.
type Connection struct {
	AccessToken   string
	WorkspaceID   string
	WorkspaceName string
}

// Store reads and writes connection state through a KV backend.
type Store struct {
	kv storage.KV
}

// NewStore creates a session store over the given KV backend.
func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// SaveConnection persists the result of a successful OAuth exchange.
func (s *Store) SaveConnection(ctx context.Context, conn Connection) error {
	if conn.AccessToken == "" {
		return errors.New("session: access token is required")
	}
	if err := s.kv.Set(ctx, keyAccessToken, conn.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := s.kv.Set(ctx, keyWorkspaceID, conn.WorkspaceID); err != nil {
		return fmt.Errorf("save workspace id: %w", err)
	}
	if err := s.kv.Set(ctx, keyWorkspaceName, conn.WorkspaceName); err != nil {
		return fmt.Errorf("save workspace name: %w", err)
	}
	return nil
}

// Connection returns the stored OAuth result, or ErrNotConnected.
func (s *Store) Connection(ctx context.Context) (Connection, error) {
	token, err := s.kv.Get(ctx, keyAccessToken)
	if errors.Is(err, storage.ErrNotFound) {
		return Connection{}, ErrNotConnected
	}
	if err != nil {
		return Connection{}, err
	}

	conn := Connection{AccessToken: token}
	if id, err := s.kv.Get(ctx, keyWorkspaceID); err == nil {
		conn.WorkspaceID = id
	}
	if name, err := s.kv.Get(ctx, keyWorkspaceName); err == nil {
		conn.WorkspaceName = name
	}
	return conn, nil
}

// AccessToken returns the stored credential, or ErrNotConnected.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	token, err := s.kv.Get(ctx, keyAccessToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNotConnected
	}
	return token, err
}

// SetDatabaseID persists the selected database.
func (s *Store) SetDatabaseID(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("session: database id is required")
	}
	return s.kv.Set(ctx, keyDatabaseID, id)
}

// DatabaseID returns the selected database, or ErrNoDatabase.
func (s *Store) DatabaseID(ctx context.Context) (string, error) {
	id, err := s.kv.Get(ctx, keyDatabaseID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNoDatabase
	}
	return id, err
}

// Clear removes all connection state, disconnecting the widget.
func (s *Store) Clear(ctx context.Context) error {
	for _, key := range []string{keyAccessToken, keyWorkspaceID, keyWorkspaceName, keyDatabaseID} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}
