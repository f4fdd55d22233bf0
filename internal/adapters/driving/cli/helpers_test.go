package cli

import (
	"context"
	"errors"
	"time"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
)

// mockAssistant returns canned answers and scores.
type mockAssistant struct {
	answer domain.AgentAnswer
	scores []domain.RoutingScore
	err    error
}

func (m *mockAssistant) Ask(_ context.Context, _ string, _ driving.AskOptions) (domain.AgentAnswer, error) {
	return m.answer, m.err
}

func (m *mockAssistant) Route(_ context.Context, _ string) ([]domain.RoutingScore, error) {
	return m.scores, m.err
}

// mockKnowledge returns canned reports and results.
type mockKnowledge struct {
	report  driving.IngestReport
	sources []domain.SourceInfo
	results []domain.RetrievalResult
	removed bool
	err     error
}

func (m *mockKnowledge) Ingest(_ context.Context, dom domain.Domain, source, _ string, _ map[string]any) (driving.IngestReport, error) {
	if m.err != nil {
		return driving.IngestReport{}, m.err
	}
	return driving.IngestReport{Domain: dom, Source: source}, nil
}

func (m *mockKnowledge) IngestFile(_ context.Context, _ domain.Domain, _ string) (driving.IngestReport, error) {
	return m.report, m.err
}

func (m *mockKnowledge) Remove(_ context.Context, _ domain.Domain, _ string) (bool, error) {
	return m.removed, m.err
}

func (m *mockKnowledge) Sources(_ context.Context, _ domain.Domain) ([]domain.SourceInfo, error) {
	return m.sources, m.err
}

func (m *mockKnowledge) Search(_ context.Context, _ domain.Domain, _ string, _ int) ([]domain.RetrievalResult, error) {
	return m.results, m.err
}

// mockSessions returns canned session data.
type mockSessions struct {
	session domain.Session
	ids     []string
	err     error
}

func (m *mockSessions) History(_ context.Context, _ string) (domain.Session, error) {
	return m.session, m.err
}

func (m *mockSessions) Clear(_ context.Context, _ string) error {
	return m.err
}

func (m *mockSessions) List(_ context.Context) ([]string, error) {
	return m.ids, m.err
}

// mockMetrics returns canned stats.
type mockMetrics struct {
	stats []driven.DomainStats
	err   error
}

func (m *mockMetrics) Record(_ context.Context, _ driven.QueryMetric) error {
	return m.err
}

func (m *mockMetrics) Stats(_ context.Context) ([]driven.DomainStats, error) {
	return m.stats, m.err
}

// mockAssistantError always fails.
type mockAssistantError struct{}

func (m *mockAssistantError) Ask(_ context.Context, _ string, _ driving.AskOptions) (domain.AgentAnswer, error) {
	return domain.AgentAnswer{}, errors.New("assistant unavailable")
}

func (m *mockAssistantError) Route(_ context.Context, _ string) ([]domain.RoutingScore, error) {
	return nil, errors.New("assistant unavailable")
}

// setupTestServices installs mock services and returns a cleanup func
// that restores the previous ones.
func setupTestServices() func() {
	oldAssistant := assistantService
	oldKnowledge := knowledgeService
	oldSessions := sessionService
	oldMetrics := metricsStore
	oldSpecialists := specialists

	assistantService = &mockAssistant{
		answer: domain.AgentAnswer{
			Text:       "The answer is grounded.",
			Domain:     domain.DomainMedical,
			Outcome:    domain.Routed,
			Confidence: 0.82,
			Sources: []domain.RetrievalResult{
				{Source: "anatomy.md", Position: 2, Score: 0.9, Text: "a passage"},
			},
		},
		scores: []domain.RoutingScore{
			{Domain: domain.DomainMedical, Confidence: 0.82},
			{Domain: domain.DomainGeneral, Confidence: 0.1},
		},
	}
	knowledgeService = &mockKnowledge{
		report: driving.IngestReport{Domain: domain.DomainMedical, Source: "anatomy.md", Chunks: 4},
		sources: []domain.SourceInfo{
			{Source: "anatomy.md", ChunkCount: 4, TotalSize: 2048},
		},
		results: []domain.RetrievalResult{
			{Source: "anatomy.md", Position: 1, Score: 0.88, Text: "the heart has four chambers"},
		},
		removed: true,
	}
	sessionService = &mockSessions{
		session: domain.Session{
			ID: "sess-1",
			Turns: []domain.ConversationTurn{
				{Role: domain.RoleUser, Text: "hello", Timestamp: time.Now()},
				{Role: domain.RoleAssistant, Text: "hi", Domain: domain.DomainGeneral, Timestamp: time.Now()},
			},
		},
		ids: []string{"sess-1", "sess-2"},
	}
	metricsStore = &mockMetrics{
		stats: []driven.DomainStats{
			{Domain: domain.DomainMedical, Queries: 3, Failures: 1, AvgConfidence: 0.7, AvgDuration: 120 * time.Millisecond},
		},
	}
	specialists = domain.DefaultSpecialists()

	return func() {
		assistantService = oldAssistant
		knowledgeService = oldKnowledge
		sessionService = oldSessions
		metricsStore = oldMetrics
		specialists = oldSpecialists
	}
}
