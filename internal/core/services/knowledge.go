package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/switchboard-labs/switchboard-cli/internal/chunker"
	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
	"github.com/switchboard-labs/switchboard-cli/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// embedAttempts is how many times a failed embedding batch is retried
// before the ingest is abandoned.
const embedAttempts = 3

// KnowledgeService manages the per-domain knowledge bases: chunking,
// embedding, durable storage, and the in-memory search indexes.
type KnowledgeService struct {
	embedder driven.EmbeddingService
	store    driven.ChunkStore
	indexes  map[domain.Domain]driven.KnowledgeIndex
	splitter *chunker.Splitter

	// mu guards sourceLocks; each source lock serialises ingests and
	// removals for one dom/source pair so concurrent re-ingests cannot
	// interleave their store and index writes.
	mu          sync.Mutex
	sourceLocks map[string]*sync.Mutex
}

// NewKnowledgeService creates a knowledge service. The chunk store is
// optional (nil disables durable persistence); the splitter defaults
// to the standard chunk size when nil.
func NewKnowledgeService(
	embedder driven.EmbeddingService,
	store driven.ChunkStore,
	indexes map[domain.Domain]driven.KnowledgeIndex,
	splitter *chunker.Splitter,
) *KnowledgeService {
	if splitter == nil {
		// The default configuration always validates.
		splitter, _ = chunker.New()
	}
	return &KnowledgeService{
		embedder:    embedder,
		store:       store,
		indexes:     indexes,
		splitter:    splitter,
		sourceLocks: make(map[string]*sync.Mutex),
	}
}

// Ingest chunks, embeds, and indexes a document. Re-ingesting an
// existing source replaces its chunk set atomically: the index never
// serves a mix of old and new chunks, and an embedding failure leaves
// the previous chunk set untouched.
func (s *KnowledgeService) Ingest(
	ctx context.Context, dom domain.Domain, source, content string, metadata map[string]any,
) (driving.IngestReport, error) {
	logger.Section("Ingest")

	source = strings.TrimSpace(source)
	if source == "" {
		return driving.IngestReport{}, fmt.Errorf("empty source name: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(content) == "" {
		return driving.IngestReport{}, fmt.Errorf("empty content for %q: %w", source, domain.ErrInvalidInput)
	}

	idx, ok := s.indexes[dom]
	if !ok {
		return driving.IngestReport{}, fmt.Errorf("domain %q has no knowledge index: %w", dom, domain.ErrUnknownDomain)
	}

	lock := s.sourceLock(dom, source)
	lock.Lock()
	defer lock.Unlock()

	replaced, err := s.sourceExists(ctx, idx, source)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("list sources: %w", err)
	}

	chunks := s.splitter.Split(dom, source, content, metadata)
	logger.Info("Ingesting %q into %s: %d chunks", source, dom, len(chunks))

	if err := s.embedChunks(ctx, chunks); err != nil {
		return driving.IngestReport{}, err
	}

	// Persist first, then swap the index. A store failure leaves the
	// index serving the previous chunk set.
	if s.store != nil {
		if err := s.store.ReplaceSource(ctx, dom, source, chunks); err != nil {
			return driving.IngestReport{}, fmt.Errorf("persist chunks for %q: %w", source, err)
		}
	}

	if err := idx.Replace(ctx, source, chunks); err != nil {
		return driving.IngestReport{}, fmt.Errorf("index chunks for %q: %w", source, err)
	}

	logger.Info("Ingest complete: %q (%d chunks, replaced=%t)", source, len(chunks), replaced)

	return driving.IngestReport{
		Domain:   dom,
		Source:   source,
		Chunks:   len(chunks),
		Replaced: replaced,
	}, nil
}

// supportedExtensions lists the file types IngestFile accepts.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".text":     true,
}

// IngestFile reads a file and ingests it, deriving the source name
// from the file name.
func (s *KnowledgeService) IngestFile(
	ctx context.Context, dom domain.Domain, path string,
) (driving.IngestReport, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return driving.IngestReport{}, fmt.Errorf("file extension %q: %w", ext, domain.ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("read %s: %w", path, err)
	}

	metadata := map[string]any{"path": path}
	return s.Ingest(ctx, dom, filepath.Base(path), string(data), metadata)
}

// Remove deletes a source and all its chunks from a domain. Removing
// an absent source is not an error; the boolean reports whether
// anything was removed.
func (s *KnowledgeService) Remove(ctx context.Context, dom domain.Domain, source string) (bool, error) {
	idx, ok := s.indexes[dom]
	if !ok {
		return false, fmt.Errorf("domain %q has no knowledge index: %w", dom, domain.ErrUnknownDomain)
	}

	lock := s.sourceLock(dom, source)
	lock.Lock()
	defer lock.Unlock()

	removed, err := idx.Delete(ctx, source)
	if err != nil {
		return false, fmt.Errorf("remove %q from %s index: %w", source, dom, err)
	}

	if s.store != nil {
		stored, err := s.store.DeleteSource(ctx, dom, source)
		if err != nil {
			return removed, fmt.Errorf("remove %q from store: %w", source, err)
		}
		removed = removed || stored
	}

	if removed {
		logger.Info("Removed %q from %s", source, dom)
	}
	return removed, nil
}

// Sources lists the ingested sources for a domain.
func (s *KnowledgeService) Sources(ctx context.Context, dom domain.Domain) ([]domain.SourceInfo, error) {
	idx, ok := s.indexes[dom]
	if !ok {
		return nil, fmt.Errorf("domain %q has no knowledge index: %w", dom, domain.ErrUnknownDomain)
	}
	return idx.Sources(ctx)
}

// Search runs a similarity search against one domain's index without
// involving an agent.
func (s *KnowledgeService) Search(
	ctx context.Context, dom domain.Domain, query string, topK int,
) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	idx, ok := s.indexes[dom]
	if !ok {
		return nil, fmt.Errorf("domain %q has no knowledge index: %w", dom, domain.ErrUnknownDomain)
	}

	vector, err := embedQuery(ctx, s.embedder, query)
	if err != nil {
		return nil, err
	}

	return idx.Search(ctx, vector, clampTopK(topK))
}

// Rebuild reloads every domain index from the chunk store. Called at
// startup so indexes survive restarts. Returns the number of chunks
// loaded.
func (s *KnowledgeService) Rebuild(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}

	logger.Section("Index Rebuild")
	total := 0

	for dom, idx := range s.indexes {
		chunks, err := s.store.LoadDomain(ctx, dom)
		if err != nil {
			return total, fmt.Errorf("load %s chunks: %w", dom, err)
		}
		if len(chunks) == 0 {
			continue
		}

		// Group by source preserving insertion order.
		order := make([]string, 0)
		bySource := make(map[string][]domain.DocumentChunk)
		for _, c := range chunks {
			if _, ok := bySource[c.Source]; !ok {
				order = append(order, c.Source)
			}
			bySource[c.Source] = append(bySource[c.Source], c)
		}

		for _, src := range order {
			if err := idx.Replace(ctx, src, bySource[src]); err != nil {
				return total, fmt.Errorf("rebuild %s/%s: %w", dom, src, err)
			}
		}

		total += len(chunks)
		logger.Debug("Rebuilt %s index: %d chunks from %d sources", dom, len(chunks), len(order))
	}

	logger.Info("Rebuild complete: %d chunks", total)
	return total, nil
}

// embedChunks fills in chunk embeddings, retrying transient provider
// failures with exponential backoff.
func (s *KnowledgeService) embedChunks(ctx context.Context, chunks []domain.DocumentChunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	var vectors [][]float32
	backoff := retry.WithMaxRetries(embedAttempts, retry.NewExponential(200*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var embedErr error
		vectors, embedErr = s.embedder.EmbedBatch(ctx, texts)
		if embedErr != nil {
			logger.Warn("Embedding batch failed, will retry: %v", embedErr)
			return retry.RetryableError(embedErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("embed %d chunks: %w: %v", len(chunks), domain.ErrEmbedding, err)
	}

	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d vectors for %d chunks: %w",
			len(vectors), len(chunks), domain.ErrEmbedding)
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}

// sourceExists reports whether the index already holds chunks for a
// source.
func (s *KnowledgeService) sourceExists(ctx context.Context, idx driven.KnowledgeIndex, source string) (bool, error) {
	infos, err := idx.Sources(ctx)
	if err != nil {
		return false, err
	}
	for _, info := range infos {
		if info.Source == source {
			return true, nil
		}
	}
	return false, nil
}

// sourceLock returns the mutex serialising writes for one dom/source
// pair, creating it on first use.
func (s *KnowledgeService) sourceLock(dom domain.Domain, source string) *sync.Mutex {
	key := string(dom) + "/" + source
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.sourceLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.sourceLocks[key] = lock
	}
	return lock
}

// clampTopK normalises a requested retrieval depth into the supported
// range.
func clampTopK(k int) int {
	if k <= 0 {
		return domain.DefaultTopK
	}
	if k > domain.MaxTopK {
		return domain.MaxTopK
	}
	return k
}
