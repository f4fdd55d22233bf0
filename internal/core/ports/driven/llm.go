package driven

import "context"

// GenerateOptions tunes a single completion call.
type GenerateOptions struct {
	// MaxTokens limits the response length. Zero uses the provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 to 2.0). Zero uses the
	// provider default.
	Temperature float64

	// StopWords stop generation when encountered.
	StopWords []string
}

// ChatMessage is one turn of a chat-style completion.
type ChatMessage struct {
	// Role is "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions tunes a chat completion call.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}

// LLMService generates text from prompts.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini, gpt-4o)
//   - Ollama (llama3, mistral)
type LLMService interface {
	// Generate produces a completion for a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat produces a completion for a multi-turn conversation. The
	// system prompt, conversation history, and the current user turn
	// all travel as messages.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
