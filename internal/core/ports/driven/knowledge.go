package driven

import (
	"context"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

// KnowledgeIndex stores embedded chunks for one domain and answers
// similarity searches over them.
//
// Replace is all-or-nothing per source: readers observe either the
// previous chunk set for that source or the new one, never a partial
// mix. Search must remain available while a Replace is in flight.
type KnowledgeIndex interface {
	// Replace atomically swaps the chunk set for a source. An empty
	// chunk slice removes the source.
	Replace(ctx context.Context, source string, chunks []domain.DocumentChunk) error

	// Delete removes every chunk belonging to a source. Deleting an
	// unknown source is a no-op; the boolean reports whether anything
	// was removed.
	Delete(ctx context.Context, source string) (bool, error)

	// Search returns the k chunks most similar to the query vector,
	// ordered descending by score. Equal scores tie-break by insertion
	// order. An empty index returns an empty slice, not an error.
	Search(ctx context.Context, vector []float32, k int) ([]domain.RetrievalResult, error)

	// Sources lists the ingested sources with chunk counts.
	Sources(ctx context.Context) ([]domain.SourceInfo, error)

	// Size returns the total number of indexed chunks.
	Size(ctx context.Context) (int, error)
}

// ChunkStore persists chunks durably so indexes can be rebuilt across
// restarts. The in-memory index is the search authority; the store is
// the recovery authority.
type ChunkStore interface {
	// ReplaceSource atomically swaps the stored chunk set for a source
	// within a domain.
	ReplaceSource(ctx context.Context, dom domain.Domain, source string, chunks []domain.DocumentChunk) error

	// DeleteSource removes every stored chunk for a source within a
	// domain. Deleting an unknown source is a no-op; the boolean
	// reports whether anything was removed.
	DeleteSource(ctx context.Context, dom domain.Domain, source string) (bool, error)

	// LoadDomain returns every stored chunk for a domain, in insertion
	// order, for index rebuilds at startup.
	LoadDomain(ctx context.Context, dom domain.Domain) ([]domain.DocumentChunk, error)

	// Sources lists the stored sources for a domain.
	Sources(ctx context.Context, dom domain.Domain) ([]domain.SourceInfo, error)

	// Close releases the underlying storage.
	Close() error
}
