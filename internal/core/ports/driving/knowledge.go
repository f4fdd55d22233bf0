package driving

import (
	"context"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

// IngestReport summarises one completed ingest.
type IngestReport struct {
	// Domain the document was ingested into.
	Domain domain.Domain

	// Source is the document name.
	Source string

	// Chunks is how many chunks were indexed.
	Chunks int

	// Replaced is true when the source existed before and its chunk
	// set was swapped.
	Replaced bool
}

// KnowledgeService manages the per-domain knowledge bases.
type KnowledgeService interface {
	// Ingest chunks, embeds, and indexes a document into a domain's
	// knowledge base. Re-ingesting an existing source replaces its
	// chunk set atomically.
	Ingest(ctx context.Context, dom domain.Domain, source string, content string, metadata map[string]any) (IngestReport, error)

	// IngestFile reads a file from disk and ingests it, deriving the
	// source name from the file name. Unsupported extensions return
	// domain.ErrUnsupportedFormat.
	IngestFile(ctx context.Context, dom domain.Domain, path string) (IngestReport, error)

	// Remove deletes a source and all its chunks from a domain. An
	// absent source is not an error; the boolean reports whether
	// anything was removed.
	Remove(ctx context.Context, dom domain.Domain, source string) (bool, error)

	// Sources lists the ingested sources for a domain.
	Sources(ctx context.Context, dom domain.Domain) ([]domain.SourceInfo, error)

	// Search runs a similarity search against one domain's index
	// without involving an agent. Primarily for inspection.
	Search(ctx context.Context, dom domain.Domain, query string, topK int) ([]domain.RetrievalResult, error)
}
