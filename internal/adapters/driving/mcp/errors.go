// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Switchboard. It enables AI assistants like Claude to route questions
// through the specialist registry and inspect the knowledge bases.
package mcp

import "errors"

// ErrMissingAssistantService is returned when the assistant service is not provided.
var ErrMissingAssistantService = errors.New("mcp: assistant service is required")
