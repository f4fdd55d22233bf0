package driven

import (
	"context"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

// SessionStore keeps conversation history keyed by session ID.
//
// Get on an unknown ID returns an empty session, not an error: a new
// conversation starts implicitly with its first turn.
type SessionStore interface {
	// Get returns the session for an ID, creating an empty one if the
	// ID is unknown.
	Get(ctx context.Context, id string) (domain.Session, error)

	// Append adds turns to a session, creating it if needed.
	Append(ctx context.Context, id string, turns ...domain.ConversationTurn) error

	// Clear removes a session's history. Clearing an unknown ID is a
	// no-op.
	Clear(ctx context.Context, id string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)

	// Close releases the underlying storage.
	Close() error
}
