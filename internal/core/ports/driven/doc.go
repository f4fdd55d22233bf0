// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Text to fixed-dimension vectors
//   - LLMService: Prompt to generated text
//   - KnowledgeIndex: Per-domain vector storage and similarity search
//   - ChunkStore: Chunk persistence (SQLite)
//   - SessionStore: Conversation turn storage
//   - ToolRegistry: Named capabilities with declared parameter schemas
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MetricsStore: Query metrics recording
//   - ConfigStore: Application configuration
//   - PromptStore: System-prompt overrides
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
