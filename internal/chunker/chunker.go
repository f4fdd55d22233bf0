// Package chunker provides fixed-size text chunking for ingest.
package chunker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Splitter slices document text into overlapping fixed-size windows.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		s.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		s.overlap = overlap
	}
}

// New creates a splitter with the given options. The configuration is
// validated rather than clamped: the chunk size and overlap must both
// be positive and the overlap must be smaller than the chunk size.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 || s.overlap <= 0 || s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("chunk size %d with overlap %d: %w",
			s.chunkSize, s.overlap, domain.ErrInvalidInput)
	}

	return s, nil
}

// ChunkSize returns the configured window size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured window overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Windows splits text into overlapping character windows. Empty text
// produces no windows; text no longer than the chunk size produces
// exactly one window equal to the whole text. A window that reaches
// the end of the text is the last one.
func (s *Splitter) Windows(text string) []string {
	if text == "" {
		return nil
	}

	textLen := len(text)
	step := s.chunkSize - s.overlap

	estimated := (textLen / step) + 1
	windows := make([]string, 0, estimated)

	for start := 0; ; start += step {
		end := start + s.chunkSize
		if end >= textLen {
			windows = append(windows, text[start:])
			break
		}
		windows = append(windows, text[start:end])
	}

	return windows
}

// Split chunks a document for one domain and source. Each chunk gets a
// fresh ID and a sequential position; the metadata map is shared across
// chunks and must not be mutated afterwards.
func (s *Splitter) Split(dom domain.Domain, source, text string, metadata map[string]any) []domain.DocumentChunk {
	windows := s.Windows(text)
	if len(windows) == 0 {
		return nil
	}

	if metadata == nil {
		metadata = make(map[string]any)
	}

	chunks := make([]domain.DocumentChunk, 0, len(windows))
	for i, w := range windows {
		chunks = append(chunks, domain.DocumentChunk{
			ID:       uuid.New().String(),
			Domain:   dom,
			Text:     w,
			Source:   source,
			Position: i,
			Metadata: metadata,
		})
	}

	return chunks
}
