package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sethvargo/go-retry"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
	"github.com/switchboard-labs/switchboard-cli/internal/logger"
)

// maxHistoryTurns is how many trailing conversation turns travel with
// each dispatch.
const maxHistoryTurns = 6

// AgentService executes one specialist dispatch: retrieval, tool
// invocation, prompt composition, and generation. Specialists are a
// data table; one AgentService serves them all.
type AgentService struct {
	llm       driven.LLMService
	retriever *Retriever
	tools     driven.ToolRegistry
	prompts   driven.PromptStore
}

// NewAgentService creates an agent service. The tool registry and
// prompt store are optional (nil disables tools and prompt overrides).
func NewAgentService(
	llm driven.LLMService,
	retriever *Retriever,
	tools driven.ToolRegistry,
	prompts driven.PromptStore,
) *AgentService {
	return &AgentService{
		llm:       llm,
		retriever: retriever,
		tools:     tools,
		prompts:   prompts,
	}
}

// Answer runs one specialist against a query and returns its grounded
// answer. Retrieval runs only for retrieval-enabled specialists; tool
// failures degrade to a note in the prompt rather than failing the
// dispatch.
func (a *AgentService) Answer(
	ctx context.Context,
	cfg domain.SpecialistConfig,
	query string,
	history []domain.ConversationTurn,
	topK int,
) (domain.AgentAnswer, error) {
	logger.Debug("Dispatching %s for query %q", cfg.Domain, truncate(query, 60))

	var sources []domain.RetrievalResult
	if cfg.Retrieval && a.retriever != nil {
		results, err := a.retriever.Retrieve(ctx, cfg.Domain, query, topK)
		if err != nil {
			return domain.AgentAnswer{}, fmt.Errorf("retrieve for %s: %w", cfg.Domain, err)
		}
		sources = results
	}

	toolNotes := a.runTools(ctx, cfg, query)

	messages := a.composeMessages(cfg, query, history, sources, toolNotes)

	text, err := a.generate(ctx, messages, cfg.Temperature)
	if err != nil {
		return domain.AgentAnswer{}, fmt.Errorf("generate for %s: %w: %v", cfg.Domain, domain.ErrGeneration, err)
	}

	return domain.AgentAnswer{
		Text:    text,
		Domain:  cfg.Domain,
		Outcome: domain.Routed,
		Sources: sources,
	}, nil
}

// generate calls the LLM with one retry on transient failure.
func (a *AgentService) generate(ctx context.Context, messages []driven.ChatMessage, temperature float64) (string, error) {
	var text string
	backoff := retry.WithMaxRetries(1, retry.NewConstant(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var genErr error
		text, genErr = a.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: temperature})
		if genErr != nil {
			logger.Warn("Generation failed, will retry once: %v", genErr)
			return retry.RetryableError(genErr)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// composeMessages builds the chat transcript: system prompt, trailing
// history, then the user query with knowledge passages and tool output
// attached.
func (a *AgentService) composeMessages(
	cfg domain.SpecialistConfig,
	query string,
	history []domain.ConversationTurn,
	sources []domain.RetrievalResult,
	toolNotes []string,
) []driven.ChatMessage {
	messages := []driven.ChatMessage{
		{Role: "system", Content: a.systemPrompt(cfg)},
	}

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for _, turn := range history {
		role := turn.Role
		if role != domain.RoleUser && role != domain.RoleAssistant {
			continue
		}
		messages = append(messages, driven.ChatMessage{Role: role, Content: turn.Text})
	}

	var b strings.Builder
	if len(sources) > 0 {
		b.WriteString("Knowledge base passages:\n")
		for i, src := range sources {
			fmt.Fprintf(&b, "[%d] (%s) %s\n", i+1, src.Source, truncate(src.Text, 500))
		}
		b.WriteString("\n")
	}
	for _, note := range toolNotes {
		b.WriteString(note)
		b.WriteString("\n")
	}
	if b.Len() > 0 {
		b.WriteString("\nQuestion: ")
	}
	b.WriteString(query)

	return append(messages, driven.ChatMessage{Role: "user", Content: b.String()})
}

// systemPrompt resolves the specialist's system prompt, preferring a
// prompt-store override.
func (a *AgentService) systemPrompt(cfg domain.SpecialistConfig) string {
	if a.prompts != nil {
		if custom, err := a.prompts.Load(driven.SpecialistPromptName(string(cfg.Domain))); err == nil && custom != "" {
			return custom
		}
	}
	return cfg.SystemPrompt
}

// runTools invokes the specialist's tools that look relevant to the
// query. Tool output feeds the prompt; a failing tool is logged and
// skipped.
func (a *AgentService) runTools(ctx context.Context, cfg domain.SpecialistConfig, query string) []string {
	if a.tools == nil || len(cfg.Tools) == 0 {
		return nil
	}

	var notes []string
	for _, name := range cfg.Tools {
		args, relevant := toolArgsFor(name, query)
		if !relevant {
			continue
		}

		if _, err := a.tools.Spec(name); err != nil {
			logger.Warn("Specialist %s references unknown tool %q, skipping", cfg.Domain, name)
			continue
		}

		output, err := a.tools.Invoke(ctx, name, args)
		if err != nil {
			logger.Warn("Tool %q failed: %v", name, err)
			continue
		}

		logger.Debug("Tool %q produced %d bytes", name, len(output))
		notes = append(notes, fmt.Sprintf("Tool %s result:\n%s", name, output))
	}

	return notes
}

var (
	cityPattern = regexp.MustCompile(`(?i)(?:weather|temperature|forecast)[^.?!]*?\b(?:in|for|at)\s+([a-zA-Z][a-zA-Z .'-]*?)(?:[?.,!]|$)`)
	exprPattern = regexp.MustCompile(`[-+]?\d[\d ]*(?:\.\d+)?(?:\s*[-+*/%^]\s*[-+]?[\d(][\d(). ]*(?:\.\d+)?)+`)
	zonePattern = regexp.MustCompile(`(?i)time[^.?!]*?\bin\s+([a-zA-Z][a-zA-Z_/ ]*?)(?:[?.,!]|$)`)
)

// toolArgsFor decides whether a tool applies to the query and extracts
// its arguments heuristically.
func toolArgsFor(name, query string) (map[string]any, bool) {
	lower := strings.ToLower(query)

	switch name {
	case "weather":
		if !strings.Contains(lower, "weather") &&
			!strings.Contains(lower, "temperature") &&
			!strings.Contains(lower, "forecast") {
			return nil, false
		}
		args := map[string]any{}
		if m := cityPattern.FindStringSubmatch(query); len(m) > 1 {
			args["city"] = strings.TrimSpace(m[1])
		}
		return args, true

	case "calculator":
		m := exprPattern.FindString(query)
		if m == "" {
			return nil, false
		}
		return map[string]any{"expression": strings.TrimSpace(m)}, true

	case "clock":
		if !strings.Contains(lower, "time") && !strings.Contains(lower, "timezone") {
			return nil, false
		}
		args := map[string]any{}
		if m := zonePattern.FindStringSubmatch(query); len(m) > 1 {
			args["timezone"] = strings.TrimSpace(m[1])
		}
		return args, true

	default:
		return nil, false
	}
}

// truncate shortens a string to at most n runes for logging and prompt
// budgets, never cutting a multi-byte character in half.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
