package domain

import "time"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one message in a session. The core reads the
// tail of a session's turns for context and appends the turns it
// produces; it never owns session state itself.
type ConversationTurn struct {
	// Role is RoleUser or RoleAssistant.
	Role string

	// Text is the message content.
	Text string

	// Domain is the specialist that produced an assistant turn.
	// Empty for user turns.
	Domain Domain

	// Timestamp is when the turn was recorded.
	Timestamp time.Time
}

// Session groups the turns of one conversation.
type Session struct {
	// ID is the session identifier.
	ID string

	// Turns in chronological order.
	Turns []ConversationTurn

	// CreatedAt is when the session was first seen.
	CreatedAt time.Time

	// UpdatedAt is when the session last changed.
	UpdatedAt time.Time
}
