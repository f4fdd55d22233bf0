package mcp

import (
	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant routes queries to specialist agents.
	Assistant driving.AssistantService

	// Knowledge manages and searches the per-domain knowledge bases.
	Knowledge driving.KnowledgeService

	// Sessions exposes conversation history.
	Sessions driving.SessionService

	// Specialists is the registry exposed as a resource.
	Specialists []domain.SpecialistConfig
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	// Knowledge and Sessions are optional
	return nil
}
