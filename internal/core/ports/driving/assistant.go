package driving

import (
	"context"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

// AskOptions tunes one routed query.
type AskOptions struct {
	// SessionID threads the query into a conversation. Empty means a
	// one-shot query with no history.
	SessionID string

	// Domain forces dispatch to one specialist, bypassing routing.
	// Empty means route normally.
	Domain domain.Domain

	// TopK is the retrieval depth. Zero means the default; out-of-range
	// values are clamped.
	TopK int
}

// AssistantService answers queries by routing them to specialist agents.
type AssistantService interface {
	// Ask routes a query, dispatches the chosen specialist(s), and
	// returns the final answer. An empty or whitespace-only query
	// returns domain.ErrInvalidInput.
	Ask(ctx context.Context, query string, opts AskOptions) (domain.AgentAnswer, error)

	// Route scores the query and returns the would-be dispatch without
	// generating an answer. Useful for inspection and debugging.
	Route(ctx context.Context, query string) ([]domain.RoutingScore, error)
}
