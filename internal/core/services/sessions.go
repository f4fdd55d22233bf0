package services

import (
	"context"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService exposes conversation history to external actors.
type SessionService struct {
	store driven.SessionStore
}

// NewSessionService creates a session service over the given store.
func NewSessionService(store driven.SessionStore) *SessionService {
	return &SessionService{store: store}
}

// History returns a session's turns in chronological order.
func (s *SessionService) History(ctx context.Context, id string) (domain.Session, error) {
	return s.store.Get(ctx, id)
}

// Clear removes a session's history.
func (s *SessionService) Clear(ctx context.Context, id string) error {
	return s.store.Clear(ctx, id)
}

// List returns the known session IDs.
func (s *SessionService) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}
