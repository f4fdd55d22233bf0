// Package domain defines the core business entities for Switchboard.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Domain: A specialist knowledge area with its own index and prompt
//   - DocumentChunk: An embedded, searchable window of a source document
//   - RoutingScore: Per-domain relevance of a query
//   - RetrievalResult: A grounded passage returned by retrieval
//   - AgentAnswer: The final answer produced for a query
//   - ConversationTurn: One user or assistant message in a session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
