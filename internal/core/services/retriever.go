package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
	"github.com/switchboard-labs/switchboard-cli/internal/logger"
)

// Lexical re-ranking bounds. Only results scoring within rerankWindow
// of the best similarity are re-ordered, and the lexical boost never
// exceeds rerankBoost, so a vector-distant chunk cannot leapfrog a
// clearly better one.
const (
	rerankWindow = 0.1
	rerankBoost  = 0.05
)

// Retriever answers similarity searches over the per-domain indexes,
// with a bounded lexical re-rank on top of the vector scores.
type Retriever struct {
	embedder driven.EmbeddingService
	indexes  map[domain.Domain]driven.KnowledgeIndex
}

// NewRetriever creates a retriever over the given indexes.
func NewRetriever(embedder driven.EmbeddingService, indexes map[domain.Domain]driven.KnowledgeIndex) *Retriever {
	return &Retriever{embedder: embedder, indexes: indexes}
}

// Retrieve embeds the query and searches one domain's index. Transient
// embedding failures are retried with exponential backoff.
func (r *Retriever) Retrieve(
	ctx context.Context, dom domain.Domain, query string, topK int,
) ([]domain.RetrievalResult, error) {
	idx, ok := r.indexes[dom]
	if !ok {
		return nil, fmt.Errorf("domain %q has no knowledge index: %w", dom, domain.ErrUnknownDomain)
	}

	vector, err := embedQuery(ctx, r.embedder, query)
	if err != nil {
		return nil, err
	}

	results, err := idx.Search(ctx, vector, clampTopK(topK))
	if err != nil {
		return nil, fmt.Errorf("search %s index: %w", dom, err)
	}

	logger.Debug("Retrieved %d chunks from %s", len(results), dom)
	return rerank(results, query), nil
}

// embedQuery embeds a single query, retrying transient provider
// failures the same way chunk embedding does.
func embedQuery(ctx context.Context, embedder driven.EmbeddingService, query string) ([]float32, error) {
	var vector []float32
	backoff := retry.WithMaxRetries(embedAttempts, retry.NewExponential(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var embedErr error
		vector, embedErr = embedder.Embed(ctx, query)
		if embedErr != nil {
			logger.Warn("Query embedding failed, will retry: %v", embedErr)
			return retry.RetryableError(embedErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w: %v", domain.ErrEmbedding, err)
	}
	return vector, nil
}

// rerank applies a small lexical boost to results whose similarity sits
// within rerankWindow of the top score. Results outside the window keep
// their order.
func rerank(results []domain.RetrievalResult, query string) []domain.RetrievalResult {
	if len(results) < 2 {
		return results
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return results
	}

	top := results[0].Score
	window := 0
	for window < len(results) && top-results[window].Score <= rerankWindow {
		window++
	}
	if window < 2 {
		return results
	}

	for i := 0; i < window; i++ {
		results[i].Score += rerankBoost * lexicalOverlap(results[i].Text, terms)
	}

	// Stable sort keeps the similarity order for untouched scores.
	head := results[:window]
	sort.SliceStable(head, func(i, j int) bool {
		return head[i].Score > head[j].Score
	})

	return results
}

// lexicalOverlap returns the fraction of query terms present in the
// text, in [0,1].
func lexicalOverlap(text string, terms []string) float64 {
	lower := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
