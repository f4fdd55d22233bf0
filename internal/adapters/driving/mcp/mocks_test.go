package mcp

import (
	"context"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
)

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	answer   domain.AgentAnswer
	scores   []domain.RoutingScore
	lastOpts driving.AskOptions
	err      error
}

func (m *mockAssistantService) Ask(
	_ context.Context,
	_ string,
	opts driving.AskOptions,
) (domain.AgentAnswer, error) {
	m.lastOpts = opts
	return m.answer, m.err
}

func (m *mockAssistantService) Route(_ context.Context, _ string) ([]domain.RoutingScore, error) {
	return m.scores, m.err
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	report  driving.IngestReport
	sources []domain.SourceInfo
	results []domain.RetrievalResult
	err     error
}

func (m *mockKnowledgeService) Ingest(
	_ context.Context,
	_ domain.Domain,
	_, _ string,
	_ map[string]any,
) (driving.IngestReport, error) {
	return m.report, m.err
}

func (m *mockKnowledgeService) IngestFile(
	_ context.Context,
	_ domain.Domain,
	_ string,
) (driving.IngestReport, error) {
	return m.report, m.err
}

func (m *mockKnowledgeService) Remove(_ context.Context, _ domain.Domain, _ string) (bool, error) {
	return m.err == nil, m.err
}

func (m *mockKnowledgeService) Sources(_ context.Context, _ domain.Domain) ([]domain.SourceInfo, error) {
	return m.sources, m.err
}

func (m *mockKnowledgeService) Search(
	_ context.Context,
	_ domain.Domain,
	_ string,
	_ int,
) ([]domain.RetrievalResult, error) {
	return m.results, m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	session domain.Session
	ids     []string
	err     error
}

func (m *mockSessionService) History(_ context.Context, _ string) (domain.Session, error) {
	return m.session, m.err
}

func (m *mockSessionService) Clear(_ context.Context, _ string) error {
	return m.err
}

func (m *mockSessionService) List(_ context.Context) ([]string, error) {
	return m.ids, m.err
}
