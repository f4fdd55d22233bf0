// Package memory provides an in-memory vector index with per-source
// copy-then-swap replacement.
//
// The index holds one domain's chunks in insertion order. Writers build
// a fresh chunk slice and swap it in under the lock; readers take a
// snapshot reference and score against it outside the lock, so searches
// stay available while a replace is in flight and never observe a
// partially swapped source.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

// Index is an in-memory vector index for one domain.
type Index struct {
	mu   sync.RWMutex
	dims int

	// chunks is immutable once published: every mutation swaps in a
	// freshly built slice.
	chunks []domain.DocumentChunk
}

// New creates an empty index. dims, when positive, is enforced on every
// inserted embedding.
func New(dims int) *Index {
	return &Index{dims: dims}
}

// Replace atomically swaps the chunk set for a source. An empty chunk
// slice removes the source.
func (x *Index) Replace(_ context.Context, source string, chunks []domain.DocumentChunk) error {
	for _, c := range chunks {
		if x.dims > 0 && len(c.Embedding) != x.dims {
			return fmt.Errorf("chunk %s: embedding has %d dimensions, index expects %d: %w",
				c.ID, len(c.Embedding), x.dims, domain.ErrInvalidInput)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	next := make([]domain.DocumentChunk, 0, len(x.chunks)+len(chunks))
	for _, c := range x.chunks {
		if c.Source != source {
			next = append(next, c)
		}
	}
	next = append(next, chunks...)

	x.chunks = next
	return nil
}

// Delete removes every chunk belonging to a source. An absent source
// is a no-op.
func (x *Index) Delete(_ context.Context, source string) (bool, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	next := make([]domain.DocumentChunk, 0, len(x.chunks))
	for _, c := range x.chunks {
		if c.Source != source {
			next = append(next, c)
		}
	}

	if len(next) == len(x.chunks) {
		return false, nil
	}

	x.chunks = next
	return true, nil
}

// Search returns the k most similar chunks, ordered descending by
// cosine similarity. Equal scores keep insertion order.
func (x *Index) Search(_ context.Context, vector []float32, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, nil
	}

	x.mu.RLock()
	snapshot := x.chunks
	x.mu.RUnlock()

	if len(snapshot) == 0 {
		return []domain.RetrievalResult{}, nil
	}

	type scored struct {
		idx   int
		score float64
	}

	results := make([]scored, len(snapshot))
	for i, c := range snapshot {
		results[i] = scored{idx: i, score: cosineSimilarity(vector, c.Embedding)}
	}

	// Stable sort preserves insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if len(results) > k {
		results = results[:k]
	}

	out := make([]domain.RetrievalResult, len(results))
	for i, r := range results {
		c := snapshot[r.idx]
		out[i] = domain.RetrievalResult{
			ChunkID:  c.ID,
			Text:     c.Text,
			Score:    r.score,
			Source:   c.Source,
			Position: c.Position,
			Metadata: c.Metadata,
		}
	}

	return out, nil
}

// Sources lists the indexed sources in first-seen order.
func (x *Index) Sources(_ context.Context) ([]domain.SourceInfo, error) {
	x.mu.RLock()
	snapshot := x.chunks
	x.mu.RUnlock()

	order := make([]string, 0)
	agg := make(map[string]*domain.SourceInfo)

	for _, c := range snapshot {
		info, ok := agg[c.Source]
		if !ok {
			info = &domain.SourceInfo{Source: c.Source}
			agg[c.Source] = info
			order = append(order, c.Source)
		}
		info.ChunkCount++
		info.TotalSize += len(c.Text)
	}

	out := make([]domain.SourceInfo, 0, len(order))
	for _, src := range order {
		out = append(out, *agg[src])
	}

	return out, nil
}

// Size returns the total number of indexed chunks.
func (x *Index) Size(_ context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.chunks), nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched lengths or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
