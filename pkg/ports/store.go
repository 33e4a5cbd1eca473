package ports

import (
	"context"

	"enkat/pkg/domain"
)

// SessionStore persists conversation snapshots, enabling stateless
// adapters (e.g. HTTP) to pick a session back up between requests.
type SessionStore interface {
	// Save persists the state for a given session id.
	Save(ctx context.Context, sessionID string, state *domain.SessionState) error

	// Load retrieves the state for a given session id.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.SessionState, error)

	// Delete removes the state for a given session id.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
