package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockEmbeddingService implements driven.EmbeddingService.
type mockEmbeddingService struct {
	mu        sync.Mutex
	embedding []float32
	byText    map[string][]float32
	embedErr  error
	failures  int // fail this many calls before succeeding
	calls     int
}

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	if v, ok := m.byText[text]; ok {
		return v
	}
	if m.embedding != nil {
		return m.embedding
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, fmt.Errorf("mock embed failure")
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return nil, fmt.Errorf("mock embed failure")
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectorFor(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int              { return 3 }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error                 { return nil }

// mockLLMService implements driven.LLMService.
type mockLLMService struct {
	mu             sync.Mutex
	generateResult string
	generateErr    error
	chatResult     string
	chatErr        error
	chatFailures   int // fail this many Chat calls before succeeding
	generateCalls  []string
	chatCalls      [][]driven.ChatMessage
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateCalls = append(m.generateCalls, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.generateResult, nil
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls = append(m.chatCalls, messages)
	if m.chatFailures > 0 {
		m.chatFailures--
		return "", fmt.Errorf("mock chat failure")
	}
	if m.chatErr != nil {
		return "", m.chatErr
	}
	if m.chatResult != "" {
		return m.chatResult, nil
	}
	return "mock answer", nil
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockSessionStore implements driven.SessionStore.
type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	getErr   error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]domain.Session)}
}

func (m *mockSessionStore) Get(_ context.Context, id string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.Session{}, m.getErr
	}
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return domain.Session{ID: id}, nil
}

func (m *mockSessionStore) Append(_ context.Context, id string, turns ...domain.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[id]
	s.ID = id
	s.Turns = append(s.Turns, turns...)
	m.sessions[id] = s
	return nil
}

func (m *mockSessionStore) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *mockSessionStore) Close() error { return nil }

// mockMetricsStore implements driven.MetricsStore.
type mockMetricsStore struct {
	mu      sync.Mutex
	metrics []driven.QueryMetric
}

func (m *mockMetricsStore) Record(_ context.Context, metric driven.QueryMetric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = append(m.metrics, metric)
	return nil
}

func (m *mockMetricsStore) Stats(_ context.Context) ([]driven.DomainStats, error) {
	return nil, nil
}

// mockToolRegistry implements driven.ToolRegistry.
type mockToolRegistry struct {
	mu      sync.Mutex
	specs   map[string]driven.ToolSpec
	outputs map[string]string
	invoked []string
	err     error
}

func newMockToolRegistry(names ...string) *mockToolRegistry {
	specs := make(map[string]driven.ToolSpec)
	outputs := make(map[string]string)
	for _, n := range names {
		specs[n] = driven.ToolSpec{Name: n}
		outputs[n] = n + " output"
	}
	return &mockToolRegistry{specs: specs, outputs: outputs}
}

func (m *mockToolRegistry) Invoke(_ context.Context, name string, _ map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoked = append(m.invoked, name)
	if m.err != nil {
		return "", m.err
	}
	if _, ok := m.specs[name]; !ok {
		return "", domain.ErrUnknownTool
	}
	return m.outputs[name], nil
}

func (m *mockToolRegistry) Spec(name string) (driven.ToolSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	spec, ok := m.specs[name]
	if !ok {
		return driven.ToolSpec{}, domain.ErrUnknownTool
	}
	return spec, nil
}

func (m *mockToolRegistry) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.specs))
	for n := range m.specs {
		names = append(names, n)
	}
	return names
}

// mockChunkStore implements driven.ChunkStore.
type mockChunkStore struct {
	mu         sync.Mutex
	chunks     map[string][]domain.DocumentChunk // dom/source -> chunks
	replaceErr error
}

func newMockChunkStore() *mockChunkStore {
	return &mockChunkStore{chunks: make(map[string][]domain.DocumentChunk)}
}

func storeKey(dom domain.Domain, source string) string {
	return string(dom) + "/" + source
}

func (m *mockChunkStore) ReplaceSource(_ context.Context, dom domain.Domain, source string, chunks []domain.DocumentChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.chunks[storeKey(dom, source)] = chunks
	return nil
}

func (m *mockChunkStore) DeleteSource(_ context.Context, dom domain.Domain, source string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := storeKey(dom, source)
	if _, ok := m.chunks[key]; !ok {
		return false, nil
	}
	delete(m.chunks, key)
	return true, nil
}

func (m *mockChunkStore) LoadDomain(_ context.Context, dom domain.Domain) ([]domain.DocumentChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DocumentChunk
	for _, chunks := range m.chunks {
		for _, c := range chunks {
			if c.Domain == dom {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (m *mockChunkStore) Sources(_ context.Context, dom domain.Domain) ([]domain.SourceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SourceInfo
	for _, chunks := range m.chunks {
		if len(chunks) == 0 || chunks[0].Domain != dom {
			continue
		}
		out = append(out, domain.SourceInfo{Source: chunks[0].Source, ChunkCount: len(chunks)})
	}
	return out, nil
}

func (m *mockChunkStore) Close() error { return nil }
