package driving

import (
	"context"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

// SessionService exposes conversation history to external actors.
type SessionService interface {
	// History returns a session's turns in chronological order. An
	// unknown ID returns an empty session.
	History(ctx context.Context, id string) (domain.Session, error)

	// Clear removes a session's history.
	Clear(ctx context.Context, id string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)
}
