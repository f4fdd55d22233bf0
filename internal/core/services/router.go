package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
	"github.com/switchboard-labs/switchboard-cli/internal/logger"
)

// Ensure RouterService implements the interface.
var _ driving.AssistantService = (*RouterService)(nil)

// DefaultDispatchTimeout bounds each specialist dispatch during
// fan-out so one stuck provider cannot stall the whole answer.
const DefaultDispatchTimeout = 20 * time.Second

// Heuristic confidence shape: one keyword match lands below the
// routing threshold, a second match clears it.
const (
	matchBaseConfidence = 0.5
	matchStepConfidence = 0.25
	maxHeuristicScore   = 0.95

	// classifierConfidence is assigned when the LLM classifier picks a
	// domain that the keyword heuristic missed.
	classifierConfidence = 0.75

	// fallbackConfidence is assigned to the general specialist when
	// nothing else qualifies.
	fallbackConfidence = 0.5
)

const defaultClassifierPrompt = `You are a query router. Pick the single best domain for the query from this list:
%s

Respond with a JSON object only: {"domain": "<domain>", "confidence": <0..1>}

Query: %s`

const defaultSynthesisPrompt = `You are a response coordinator that synthesizes multiple expert opinions into one coherent answer.

Query: %s

%s

Synthesize these into a comprehensive answer that prioritizes the primary response, incorporates relevant additional context, and reads as one unified reply.`

// RouterService routes queries to specialist agents: it scores every
// domain, dispatches the winner (or fans out on ambiguity), and
// threads conversation history and metrics around the dispatch.
type RouterService struct {
	agents   *AgentService
	llm      driven.LLMService
	sessions driven.SessionStore
	metrics  driven.MetricsStore
	prompts  driven.PromptStore

	specialists []domain.SpecialistConfig
	byDomain    map[domain.Domain]domain.SpecialistConfig

	dispatchTimeout time.Duration
}

// NewRouterService creates a router over the given specialist registry.
// The LLM, session store, metrics store, and prompt store are optional;
// without an LLM the router cannot classify keyword-less queries or
// synthesize fan-out answers and degrades to the general specialist and
// the primary answer respectively.
func NewRouterService(
	agents *AgentService,
	llm driven.LLMService,
	sessions driven.SessionStore,
	metrics driven.MetricsStore,
	prompts driven.PromptStore,
	specialists []domain.SpecialistConfig,
) *RouterService {
	byDomain := make(map[domain.Domain]domain.SpecialistConfig, len(specialists))
	for _, s := range specialists {
		byDomain[s.Domain] = s
	}

	return &RouterService{
		agents:          agents,
		llm:             llm,
		sessions:        sessions,
		metrics:         metrics,
		prompts:         prompts,
		specialists:     specialists,
		byDomain:        byDomain,
		dispatchTimeout: DefaultDispatchTimeout,
	}
}

// SetDispatchTimeout overrides the per-dispatch timeout.
func (r *RouterService) SetDispatchTimeout(d time.Duration) {
	if d > 0 {
		r.dispatchTimeout = d
	}
}

// Ask routes a query, dispatches the chosen specialist(s), and returns
// the final answer.
func (r *RouterService) Ask(ctx context.Context, query string, opts driving.AskOptions) (domain.AgentAnswer, error) {
	started := time.Now()
	logger.Section("Ask")

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.AgentAnswer{}, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if len(r.specialists) == 0 {
		return domain.AgentAnswer{}, fmt.Errorf("no specialists registered: %w", domain.ErrNoDomains)
	}

	history, err := r.loadHistory(ctx, opts.SessionID)
	if err != nil {
		logger.Warn("Loading session %q failed: %v", opts.SessionID, err)
	}

	targets, err := r.selectTargets(ctx, query, opts.Domain)
	if err != nil {
		return domain.AgentAnswer{}, err
	}

	var answer domain.AgentAnswer
	if len(targets) == 1 {
		answer, err = r.dispatchOne(ctx, targets[0], query, history, opts.TopK)
	} else {
		answer, err = r.dispatchFanout(ctx, targets, query, history, opts.TopK)
	}

	r.recordMetric(ctx, query, answer, opts.SessionID, time.Since(started), err)

	if err != nil {
		return domain.AgentAnswer{}, err
	}

	r.appendTurns(ctx, opts.SessionID, query, answer)
	logger.Info("Answered via %s (%s) in %s", answer.Domain, answer.Outcome, time.Since(started).Round(time.Millisecond))

	return answer, nil
}

// Route scores the query and returns the would-be dispatch, highest
// confidence first, without generating an answer.
func (r *RouterService) Route(ctx context.Context, query string) ([]domain.RoutingScore, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if len(r.specialists) == 0 {
		return nil, fmt.Errorf("no specialists registered: %w", domain.ErrNoDomains)
	}
	return r.score(ctx, query), nil
}

// score produces per-domain confidences, heuristic first, LLM
// classification as a fallback when no keyword matches at all.
func (r *RouterService) score(ctx context.Context, query string) []domain.RoutingScore {
	lower := strings.ToLower(query)

	scores := make([]domain.RoutingScore, 0, len(r.specialists))
	for _, spec := range r.specialists {
		matches := 0
		for _, kw := range spec.Keywords {
			if containsKeyword(lower, kw) {
				matches++
			}
		}
		conf := 0.0
		if matches > 0 {
			conf = matchBaseConfidence + matchStepConfidence*float64(matches-1)
			if conf > maxHeuristicScore {
				conf = maxHeuristicScore
			}
		}
		scores = append(scores, domain.RoutingScore{Domain: spec.Domain, Confidence: conf})
	}

	// Stable sort: registry order breaks confidence ties, so the
	// general specialist wins an all-zero scoreboard.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})

	if scores[0].Confidence > 0 {
		logger.Debug("Heuristic routing: top=%s (%.2f)", scores[0].Domain, scores[0].Confidence)
		return scores
	}

	// No keyword matched anywhere. Ask the LLM to classify.
	if dom, ok := r.classify(ctx, query); ok {
		for i := range scores {
			if scores[i].Domain == dom {
				scores[i].Confidence = classifierConfidence
			}
		}
		sort.SliceStable(scores, func(i, j int) bool {
			return scores[i].Confidence > scores[j].Confidence
		})
		logger.Info("LLM classifier routed to %s", dom)
		return scores
	}

	// Last resort: the fallback specialist.
	for i := range scores {
		if scores[i].Domain == r.specialists[0].Domain {
			scores[i].Confidence = fallbackConfidence
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})
	logger.Debug("No routing signal, falling back to %s", r.specialists[0].Domain)
	return scores
}

// selectTargets turns scores into an ordered dispatch list, honouring
// an explicit domain override.
func (r *RouterService) selectTargets(ctx context.Context, query string, override domain.Domain) ([]domain.RoutingScore, error) {
	if override != "" {
		if _, ok := r.byDomain[override]; !ok {
			return nil, fmt.Errorf("domain %q: %w", override, domain.ErrUnknownDomain)
		}
		logger.Debug("Routing overridden to %s", override)
		return []domain.RoutingScore{{Domain: override, Confidence: 1.0}}, nil
	}

	scores := r.score(ctx, query)
	top := scores[0]

	if top.Confidence >= domain.RoutingThreshold {
		return scores[:1], nil
	}

	// Ambiguous: gather close runners-up above the secondary floor.
	targets := make([]domain.RoutingScore, 0, domain.MaxFanout)
	for _, sc := range scores {
		if sc.Confidence >= domain.SecondaryThreshold && top.Confidence-sc.Confidence <= domain.AmbiguityBand {
			targets = append(targets, sc)
		}
		if len(targets) == domain.MaxFanout {
			break
		}
	}

	if len(targets) == 0 {
		// Below even the secondary floor: the fallback specialist
		// takes it alone.
		return []domain.RoutingScore{{Domain: r.specialists[0].Domain, Confidence: fallbackConfidence}}, nil
	}

	if len(targets) > 1 {
		names := make([]string, len(targets))
		for i, tgt := range targets {
			names[i] = string(tgt.Domain)
		}
		logger.Info("Ambiguous query, fanning out to %s", strings.Join(names, ", "))
	}

	return targets, nil
}

// dispatchOne runs a single specialist.
func (r *RouterService) dispatchOne(
	ctx context.Context, target domain.RoutingScore, query string,
	history []domain.ConversationTurn, topK int,
) (domain.AgentAnswer, error) {
	dctx, cancel := context.WithTimeout(ctx, r.dispatchTimeout)
	defer cancel()

	answer, err := r.agents.Answer(dctx, r.byDomain[target.Domain], query, history, topK)
	if err != nil {
		return domain.AgentAnswer{}, err
	}

	answer.Outcome = domain.Routed
	answer.Confidence = target.Confidence
	return answer, nil
}

// dispatchFanout runs the targets concurrently and synthesizes their
// answers. The highest-confidence target is the primary: synthesis
// prioritizes it, and its answer stands alone if synthesis fails or a
// secondary dispatch errors out.
func (r *RouterService) dispatchFanout(
	ctx context.Context, targets []domain.RoutingScore, query string,
	history []domain.ConversationTurn, topK int,
) (domain.AgentAnswer, error) {
	answers := make([]domain.AgentAnswer, len(targets))
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.RoutingScore) {
			defer wg.Done()
			dctx, cancel := context.WithTimeout(ctx, r.dispatchTimeout)
			defer cancel()
			answers[i], errs[i] = r.agents.Answer(dctx, r.byDomain[target.Domain], query, history, topK)
		}(i, target)
	}
	wg.Wait()

	survivors := make([]int, 0, len(targets))
	for i := range targets {
		if errs[i] == nil {
			survivors = append(survivors, i)
			continue
		}
		logger.Warn("Dispatch to %s failed: %v", targets[i].Domain, errs[i])
	}

	if len(survivors) == 0 {
		return domain.AgentAnswer{}, fmt.Errorf("all %d dispatched domains failed: %w: %v",
			len(targets), domain.ErrGeneration, errs[0])
	}

	primary := answers[survivors[0]]
	primary.Confidence = targets[survivors[0]].Confidence

	if len(survivors) == 1 {
		primary.Outcome = domain.Routed
		return primary, nil
	}

	secondary := make([]domain.AgentAnswer, 0, len(survivors)-1)
	for _, i := range survivors[1:] {
		secondary = append(secondary, answers[i])
	}

	text, err := r.synthesize(ctx, query, primary, secondary)
	if err != nil {
		logger.Warn("Synthesis failed, using primary answer: %v", err)
		primary.Outcome = domain.MultiRouted
		primary.Sources = mergeSources(primary, secondary)
		return primary, nil
	}

	return domain.AgentAnswer{
		Text:       text,
		Domain:     primary.Domain,
		Outcome:    domain.MultiRouted,
		Sources:    mergeSources(primary, secondary),
		Confidence: primary.Confidence,
	}, nil
}

// synthesize merges specialist answers with one LLM call.
func (r *RouterService) synthesize(
	ctx context.Context, query string, primary domain.AgentAnswer, secondary []domain.AgentAnswer,
) (string, error) {
	if r.llm == nil {
		return "", fmt.Errorf("no llm service for synthesis")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Primary response (%s):\n%s\n", primary.Domain, primary.Text)
	for _, ans := range secondary {
		fmt.Fprintf(&b, "\nAdditional context (%s):\n%s\n", ans.Domain, ans.Text)
	}

	template := defaultSynthesisPrompt
	if r.prompts != nil {
		if custom, err := r.prompts.Load(driven.PromptSynthesis); err == nil && custom != "" {
			template = custom
		}
	}

	prompt := fmt.Sprintf(template, query, b.String())
	text, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.3})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// classify asks the LLM to pick a domain, parsing a JSON object out of
// its reply. Returns false when the LLM is unavailable, fails, or
// names an unknown domain.
func (r *RouterService) classify(ctx context.Context, query string) (domain.Domain, bool) {
	if r.llm == nil {
		return "", false
	}

	var list strings.Builder
	for _, spec := range r.specialists {
		fmt.Fprintf(&list, "- %s: %s\n", spec.Domain, spec.Description)
	}

	template := defaultClassifierPrompt
	if r.prompts != nil {
		if custom, err := r.prompts.Load(driven.PromptClassifier); err == nil && custom != "" {
			template = custom
		}
	}

	reply, err := r.llm.Generate(ctx, fmt.Sprintf(template, list.String(), query),
		driven.GenerateOptions{Temperature: 0.3, MaxTokens: 100})
	if err != nil {
		logger.Warn("LLM classification failed: %v", err)
		return "", false
	}

	match := jsonObjectPattern.FindString(reply)
	if match == "" {
		logger.Warn("Could not find JSON in classifier reply: %q", truncate(reply, 120))
		return "", false
	}

	var decision struct {
		Domain     string  `json:"domain"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(match), &decision); err != nil {
		logger.Warn("Could not parse classifier reply: %v", err)
		return "", false
	}

	dom := domain.Domain(decision.Domain)
	if _, ok := r.byDomain[dom]; !ok {
		logger.Warn("Classifier named unknown domain %q", decision.Domain)
		return "", false
	}

	return dom, true
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// loadHistory fetches a session's turns when session tracking applies.
func (r *RouterService) loadHistory(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error) {
	if sessionID == "" || r.sessions == nil {
		return nil, nil
	}
	session, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Turns, nil
}

// appendTurns records the exchange in the session store. Best effort:
// a store failure is logged, never surfaced.
func (r *RouterService) appendTurns(ctx context.Context, sessionID, query string, answer domain.AgentAnswer) {
	if sessionID == "" || r.sessions == nil {
		return
	}

	now := time.Now()
	err := r.sessions.Append(ctx, sessionID,
		domain.ConversationTurn{Role: domain.RoleUser, Text: query, Timestamp: now},
		domain.ConversationTurn{Role: domain.RoleAssistant, Text: answer.Text, Domain: answer.Domain, Timestamp: now},
	)
	if err != nil {
		logger.Warn("Appending to session %q failed: %v", sessionID, err)
	}
}

// recordMetric persists one query metric. Best effort.
func (r *RouterService) recordMetric(
	ctx context.Context, query string, answer domain.AgentAnswer,
	sessionID string, elapsed time.Duration, askErr error,
) {
	if r.metrics == nil {
		return
	}

	metric := driven.QueryMetric{
		Query:      query,
		Domain:     answer.Domain,
		Outcome:    answer.Outcome,
		Confidence: answer.Confidence,
		Duration:   elapsed,
		SessionID:  sessionID,
		Timestamp:  time.Now(),
	}
	if askErr != nil {
		metric.Outcome = domain.Failed
	}

	if err := r.metrics.Record(ctx, metric); err != nil {
		logger.Warn("Recording metric failed: %v", err)
	}
}

// mergeSources concatenates primary and secondary sources, primary
// first.
func mergeSources(primary domain.AgentAnswer, secondary []domain.AgentAnswer) []domain.RetrievalResult {
	merged := append([]domain.RetrievalResult{}, primary.Sources...)
	for _, ans := range secondary {
		merged = append(merged, ans.Sources...)
	}
	return merged
}

// containsKeyword reports whether the lowered query mentions a keyword
// as a whole word (or phrase), so "ai" does not match "maintain" and
// "time" does not match "sometimes". A trailing plural "s" on the
// query word still counts.
func containsKeyword(lowerQuery, keyword string) bool {
	keyword = strings.ToLower(keyword)

	for idx := 0; ; {
		i := strings.Index(lowerQuery[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(keyword)
		beforeOK := start == 0 || !isWordChar(lowerQuery[start-1])
		afterOK := end == len(lowerQuery) || !isWordChar(lowerQuery[end]) ||
			(lowerQuery[end] == 's' && (end+1 == len(lowerQuery) || !isWordChar(lowerQuery[end+1])))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}
