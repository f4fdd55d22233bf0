// Command switchboard is a multi-agent assistant CLI. It routes
// questions to specialist agents, each backed by its own knowledge
// base, and exposes the same services over MCP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/switchboard-labs/switchboard-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/switchboard-labs/switchboard-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/switchboard-labs/switchboard-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/switchboard-labs/switchboard-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/switchboard-labs/switchboard-cli/internal/adapters/driven/llm/openai"
	"github.com/switchboard-labs/switchboard-cli/internal/adapters/driven/storage/sqlite"
	"github.com/switchboard-labs/switchboard-cli/internal/adapters/driven/tools"
	"github.com/switchboard-labs/switchboard-cli/internal/adapters/driving/cli"
	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
	"github.com/switchboard-labs/switchboard-cli/internal/core/services"
	"github.com/switchboard-labs/switchboard-cli/internal/index/memory"
	"github.com/switchboard-labs/switchboard-cli/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	embedder, llm, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, err := sqlite.NewStore(cfg.GetString("data_dir"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}

	specialists := domain.DefaultSpecialists()

	indexes := make(map[domain.Domain]driven.KnowledgeIndex, len(specialists))
	for _, spec := range specialists {
		if spec.Retrieval {
			indexes[spec.Domain] = memory.New(embedder.Dimensions())
		}
	}

	knowledge := services.NewKnowledgeService(embedder, store.ChunkStore(), indexes, nil)
	if n, err := knowledge.Rebuild(context.Background()); err != nil {
		logger.Warn("rebuilding indexes: %v", err)
	} else if n > 0 {
		logger.Info("rebuilt indexes with %d chunks", n)
	}

	registry := buildTools(cfg)

	retriever := services.NewRetriever(embedder, indexes)
	agents := services.NewAgentService(llm, retriever, registry, prompts)
	router := services.NewRouterService(
		agents, llm, store.SessionStore(), store.MetricsStore(), prompts, specialists)
	sessions := services.NewSessionService(store.SessionStore())

	cli.Configure(cli.Services{
		Assistant:   router,
		Knowledge:   knowledge,
		Sessions:    sessions,
		Metrics:     store.MetricsStore(),
		Specialists: specialists,
	})

	return cli.Execute()
}

// buildProvider wires the embedding and LLM services for the
// configured provider. Ollama is the default so the CLI works without
// any API keys.
func buildProvider(cfg *file.ConfigStore) (driven.EmbeddingService, driven.LLMService, error) {
	provider := cfg.GetString("provider")
	if provider == "" {
		provider = "ollama"
	}

	switch provider {
	case "openai":
		apiKey := cfg.GetString("openai.api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}

		embedder, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey: apiKey,
			Model:  cfg.GetString("openai.embedding_model"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("openai embeddings: %w", err)
		}

		llm, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey: apiKey,
			Model:  cfg.GetString("openai.llm_model"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("openai llm: %w", err)
		}

		return embedder, llm, nil

	case "ollama":
		embedder := ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("ollama.base_url"),
			Model:      cfg.GetString("ollama.embedding_model"),
			Dimensions: cfg.GetInt("ollama.embedding_dimensions"),
		})

		llm := ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.GetString("ollama.base_url"),
			Model:   cfg.GetString("ollama.llm_model"),
		})

		return embedder, llm, nil

	default:
		return nil, nil, fmt.Errorf("unknown provider %q (want openai or ollama)", provider)
	}
}

// buildTools assembles the tool registry. The weather tool needs an
// API key and is left out when none is configured.
func buildTools(cfg *file.ConfigStore) *tools.Registry {
	registry := tools.NewRegistry()

	calc := tools.NewCalculatorTool()
	registry.Register(calc.Spec(), calc.Handle)

	clock := tools.NewClockTool()
	registry.Register(clock.Spec(), clock.Handle)

	weatherKey := cfg.GetString("weather.api_key")
	if weatherKey == "" {
		weatherKey = os.Getenv("WEATHER_API_KEY")
	}
	if weatherKey != "" {
		weather, err := tools.NewWeatherTool(tools.WeatherConfig{APIKey: weatherKey})
		if err != nil {
			logger.Warn("weather tool disabled: %v", err)
		} else {
			registry.Register(weather.Spec(), weather.Handle)
		}
	} else {
		logger.Debug("weather tool disabled: no API key configured")
	}

	return registry
}
