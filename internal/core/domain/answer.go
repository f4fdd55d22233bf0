package domain

// RetrievalResult is one grounded passage returned by retrieval.
// Results are ordered descending by score; a response never exceeds
// the requested (clamped) top-k.
type RetrievalResult struct {
	// ChunkID references the matched DocumentChunk.
	ChunkID string

	// Text is the matched chunk content.
	Text string

	// Score is the similarity score. Higher means more similar.
	Score float64

	// Source is the originating document name.
	Source string

	// Position is the chunk's ordinal position within its source.
	Position int

	// Metadata carries the chunk's metadata.
	Metadata map[string]any
}

// AgentAnswer is the final product of one routed query. Immutable;
// produced once and returned to the caller.
type AgentAnswer struct {
	// Text is the generated answer.
	Text string

	// Domain is the specialist that produced (or led) the answer.
	Domain Domain

	// Outcome records the terminal routing state.
	Outcome RouteOutcome

	// Sources lists the passages the answer was grounded on,
	// ordered descending by score.
	Sources []RetrievalResult

	// Confidence is the routing confidence of the leading domain.
	Confidence float64
}
