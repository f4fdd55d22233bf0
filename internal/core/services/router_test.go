package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
)

func newTestRouter(llm *mockLLMService) (*RouterService, *mockSessionStore, *mockMetricsStore) {
	sessions := newMockSessionStore()
	metrics := &mockMetricsStore{}
	agent := NewAgentService(llm, nil, nil, nil)
	router := NewRouterService(agent, llm, sessions, metrics, nil, domain.DefaultSpecialists())
	return router, sessions, metrics
}

func TestRouterService_Ask_EmptyQuery(t *testing.T) {
	router, _, _ := newTestRouter(&mockLLMService{})

	_, err := router.Ask(context.Background(), "   ", driving.AskOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRouterService_Ask_NoSpecialists(t *testing.T) {
	llm := &mockLLMService{}
	router := NewRouterService(NewAgentService(llm, nil, nil, nil), llm, nil, nil, nil, nil)

	_, err := router.Ask(context.Background(), "hello", driving.AskOptions{})
	assert.ErrorIs(t, err, domain.ErrNoDomains)
}

func TestRouterService_Ask_SingleRoute(t *testing.T) {
	llm := &mockLLMService{chatResult: "Prices are rising."}
	router, _, metrics := newTestRouter(llm)

	answer, err := router.Ask(context.Background(),
		"Tell me about property prices and mortgage rates", driving.AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.DomainRealEstate, answer.Domain)
	assert.Equal(t, domain.Routed, answer.Outcome)
	assert.GreaterOrEqual(t, answer.Confidence, domain.RoutingThreshold)
	assert.Equal(t, "Prices are rising.", answer.Text)

	require.Len(t, metrics.metrics, 1)
	assert.Equal(t, domain.DomainRealEstate, metrics.metrics[0].Domain)
	assert.Equal(t, domain.Routed, metrics.metrics[0].Outcome)
}

func TestRouterService_Route(t *testing.T) {
	router, _, _ := newTestRouter(&mockLLMService{})

	scores, err := router.Route(context.Background(), "property prices and mortgage rates")
	require.NoError(t, err)
	require.NotEmpty(t, scores)

	assert.Equal(t, domain.DomainRealEstate, scores[0].Domain)
	for i := 1; i < len(scores); i++ {
		assert.LessOrEqual(t, scores[i].Confidence, scores[i-1].Confidence, "scores sorted descending")
	}
}

func TestRouterService_Ask_FanoutSynthesis(t *testing.T) {
	llm := &mockLLMService{chatResult: "specialist view", generateResult: "Combined expert answer."}
	router, _, _ := newTestRouter(llm)

	// One keyword each for real_estate and sales: both land at 0.5,
	// below the routing threshold and inside the ambiguity band.
	answer, err := router.Ask(context.Background(),
		"Should I buy a house as a customer investment?", driving.AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.MultiRouted, answer.Outcome)
	assert.Equal(t, "Combined expert answer.", answer.Text)
	assert.Equal(t, domain.DomainRealEstate, answer.Domain, "primary is the registry-order winner")
	assert.Len(t, llm.chatCalls, 2, "both specialists dispatched")
	assert.Len(t, llm.generateCalls, 1, "one synthesis call")
}

func TestRouterService_Ask_SynthesisFailureFallsBackToPrimary(t *testing.T) {
	llm := &mockLLMService{chatResult: "specialist view", generateErr: assert.AnError}
	router, _, _ := newTestRouter(llm)

	answer, err := router.Ask(context.Background(),
		"Should I buy a house as a customer investment?", driving.AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.MultiRouted, answer.Outcome)
	assert.Equal(t, "specialist view", answer.Text)
	assert.Equal(t, domain.DomainRealEstate, answer.Domain)
}

func TestRouterService_Ask_AllDispatchesFail(t *testing.T) {
	llm := &mockLLMService{chatErr: assert.AnError}
	router, _, metrics := newTestRouter(llm)

	_, err := router.Ask(context.Background(),
		"Should I buy a house as a customer investment?", driving.AskOptions{})
	assert.ErrorIs(t, err, domain.ErrGeneration)

	require.Len(t, metrics.metrics, 1)
	assert.Equal(t, domain.Failed, metrics.metrics[0].Outcome)
}

func TestRouterService_Ask_DomainOverride(t *testing.T) {
	llm := &mockLLMService{chatResult: "forced answer"}
	router, _, _ := newTestRouter(llm)

	answer, err := router.Ask(context.Background(), "anything at all",
		driving.AskOptions{Domain: domain.DomainEducation})
	require.NoError(t, err)
	assert.Equal(t, domain.DomainEducation, answer.Domain)
	assert.InDelta(t, 1.0, answer.Confidence, 1e-9)

	_, err = router.Ask(context.Background(), "anything at all",
		driving.AskOptions{Domain: domain.Domain("astrology")})
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)
}

func TestRouterService_Ask_LLMClassifierFallback(t *testing.T) {
	llm := &mockLLMService{
		chatResult:     "study plan",
		generateResult: `{"domain": "education", "confidence": 0.8}`,
	}
	router, _, _ := newTestRouter(llm)

	// No registry keyword appears in this query.
	answer, err := router.Ask(context.Background(),
		"Suggest a good way to prepare over six months", driving.AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, domain.DomainEducation, answer.Domain)
	assert.Equal(t, domain.Routed, answer.Outcome)
}

func TestRouterService_Ask_ClassifierGarbageFallsBackToGeneral(t *testing.T) {
	llm := &mockLLMService{chatResult: "best effort", generateResult: "not json at all"}
	router, _, _ := newTestRouter(llm)

	answer, err := router.Ask(context.Background(),
		"Suggest a good way to prepare over six months", driving.AskOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.DomainGeneral, answer.Domain)
}

func TestRouterService_Ask_SessionHistory(t *testing.T) {
	llm := &mockLLMService{chatResult: "noted"}
	router, sessions, _ := newTestRouter(llm)
	ctx := context.Background()

	_, err := router.Ask(ctx, "I feel pain in my shoulder", driving.AskOptions{SessionID: "s1"})
	require.NoError(t, err)

	stored, err := sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, stored.Turns, 2)
	assert.Equal(t, domain.RoleUser, stored.Turns[0].Role)
	assert.Equal(t, domain.RoleAssistant, stored.Turns[1].Role)
	assert.Equal(t, domain.DomainMedical, stored.Turns[1].Domain)

	// The second ask carries the first exchange as history.
	_, err = router.Ask(ctx, "Is that a symptom of something serious?", driving.AskOptions{SessionID: "s1"})
	require.NoError(t, err)

	last := llm.chatCalls[len(llm.chatCalls)-1]
	var sawHistory bool
	for _, msg := range last {
		if msg.Content == "I feel pain in my shoulder" {
			sawHistory = true
		}
	}
	assert.True(t, sawHistory, "previous turns should travel with the dispatch")
}

func TestContainsKeyword(t *testing.T) {
	tests := []struct {
		query   string
		keyword string
		want    bool
	}{
		{"how do ai models work", "ai", true},
		{"maintain the garden", "ai", false},
		{"explain ml pipelines", "ml", true},
		{"html basics", "ml", false},
		{"machine learning is fun", "machine learning", true},
		{"what time is it", "time", true},
		{"sometimes it snows", "time", false},
		{"property values", "property", true},
		{"comparing properties", "property", false},
		{"two houses on the street", "house", true},
	}

	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, containsKeyword(tt.query, tt.keyword))
		})
	}
}
