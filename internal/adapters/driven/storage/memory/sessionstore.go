// Package memory provides in-memory implementations of the storage
// ports, used for ephemeral runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// History is lost when the process exits.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
	}
}

// Get returns the session for an ID. Unknown IDs yield an empty session.
func (s *SessionStore) Get(_ context.Context, id string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return domain.Session{ID: id}, nil
	}

	// Copy the turns so callers cannot mutate stored state.
	out := session
	out.Turns = make([]domain.ConversationTurn, len(session.Turns))
	copy(out.Turns, session.Turns)
	return out, nil
}

// Append adds turns to a session, creating it if needed.
func (s *SessionStore) Append(_ context.Context, id string, turns ...domain.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	session, ok := s.sessions[id]
	if !ok {
		session = domain.Session{ID: id, CreatedAt: now}
	}

	for _, turn := range turns {
		if turn.Timestamp.IsZero() {
			turn.Timestamp = now
		}
		session.Turns = append(session.Turns, turn)
	}
	session.UpdatedAt = now

	s.sessions[id] = session
	return nil
}

// Clear removes a session's history. Unknown IDs are a no-op.
func (s *SessionStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// List returns the known session IDs in creation order.
func (s *SessionStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.sessions[ids[i]], s.sessions[ids[j]]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return ids[i] < ids[j]
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return ids, nil
}

// Close releases resources.
func (s *SessionStore) Close() error {
	return nil
}
