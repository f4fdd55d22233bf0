package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// It is never retried and is surfaced to the caller as-is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates the document format cannot be
	// ingested. Conversion from bytes to text is a collaborator's job;
	// the core only accepts plain text.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrNoDomains indicates no specialist domains are registered,
	// so no routing decision is possible.
	ErrNoDomains = errors.New("no domains available")

	// ErrUnknownDomain indicates a domain name outside the registry.
	ErrUnknownDomain = errors.New("unknown domain")

	// Infrastructure errors.

	// ErrEmbedding indicates the embedding provider failed.
	// Embedding calls are retried with bounded exponential backoff.
	ErrEmbedding = errors.New("embedding failure")

	// ErrIndexIO indicates index persistence failed. Not retried;
	// the index stays in its last-known-good state for that call.
	ErrIndexIO = errors.New("index i/o failure")

	// ErrGeneration indicates the LLM call failed or timed out.
	// Generation is retried once with the same prompt, then surfaced.
	ErrGeneration = errors.New("generation failure")

	// ErrToolFailed indicates a capability invocation failed.
	// Non-fatal: the agent proceeds without that tool's result.
	ErrToolFailed = errors.New("tool failure")

	// ErrUnknownTool indicates a capability name outside the registry.
	ErrUnknownTool = errors.New("unknown tool")
)

// Error kinds are the stable identifiers that cross the core boundary.
// Callers match on these rather than on message text or on wrapped
// provider errors.
const (
	KindValidation = "validation_error"
	KindRouting    = "routing_error"
	KindEmbedding  = "embedding_failure"
	KindIndexIO    = "index_io_error"
	KindGeneration = "generation_error"
	KindTool       = "tool_error"
	KindNotFound   = "not_found"
	KindInternal   = "internal_error"
)

// Kind maps an error chain to its stable kind identifier.
// Unrecognised errors map to KindInternal so that raw collaborator
// errors never leak a kind of their own across the boundary.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedFormat):
		return KindValidation
	case errors.Is(err, ErrNoDomains), errors.Is(err, ErrUnknownDomain):
		return KindRouting
	case errors.Is(err, ErrEmbedding):
		return KindEmbedding
	case errors.Is(err, ErrIndexIO):
		return KindIndexIO
	case errors.Is(err, ErrGeneration):
		return KindGeneration
	case errors.Is(err, ErrToolFailed), errors.Is(err, ErrUnknownTool):
		return KindTool
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
