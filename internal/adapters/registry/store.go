// Package registry provides in-memory storage of active sessions.
package registry

import (
	"context"

	"github.com/okian/flexa/internal/domain/session"
)

// Store provides access to the live session set. Sessions live for the
// duration of the process; there is no TTL, matching the engine's
// no-timeout model.
type Store interface {
	// Create allocates a new session with a fresh ID.
	Create(ctx context.Context, subjectID string) (*session.Session, error)

	// Get returns the session with the given ID.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Count returns the number of live sessions.
	Count(ctx context.Context) int

	// Close releases all sessions.
	Close() error
}
