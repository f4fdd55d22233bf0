package domain

// DocumentChunk is an embedded, searchable window of a source document.
// Chunks are immutable once created; re-ingesting a source replaces its
// entire chunk set rather than mutating chunks in place.
type DocumentChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Domain is the specialist knowledge area this chunk belongs to.
	// Every chunk in an index belongs to that index's domain.
	Domain Domain

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation. Its length must equal
	// the embedding provider's configured dimension; a mismatch is a
	// configuration error, not a per-call error.
	Embedding []float32

	// Source is the originating document name (typically a filename).
	Source string

	// Position is the ordinal position within the source document.
	Position int

	// Metadata contains arbitrary key-value pairs carried from ingest.
	Metadata map[string]any
}

// SourceInfo summarises one ingested source for inventory listings.
type SourceInfo struct {
	// Source is the document name.
	Source string

	// ChunkCount is the number of chunks indexed for this source.
	ChunkCount int

	// TotalSize is the combined byte length of the source's chunk text.
	TotalSize int
}
