package driven

import "context"

// ToolParam describes one parameter of a tool's schema. Parameters are
// validated before invocation; a missing required parameter fails the
// call without reaching the tool.
type ToolParam struct {
	// Name of the parameter.
	Name string

	// Type is "string" or "number".
	Type string

	// Description for LLM-driven argument extraction.
	Description string

	// Required marks the parameter as mandatory.
	Required bool
}

// ToolSpec declares one tool's name and parameter schema.
type ToolSpec struct {
	// Name is the registry key (e.g. "weather", "calculator", "clock").
	Name string

	// Description summarises what the tool does.
	Description string

	// Params is the declared parameter schema.
	Params []ToolParam
}

// ToolHandler executes one tool call. Arguments have already been
// validated against the tool's declared schema.
type ToolHandler func(ctx context.Context, args map[string]any) (string, error)

// ToolRegistry maps fixed capability names to handlers. The mapping is
// assembled at startup and never changes at runtime; looking up an
// unknown name returns domain.ErrUnknownTool.
type ToolRegistry interface {
	// Invoke validates args against the named tool's schema and runs
	// it. Handler failures wrap domain.ErrToolFailed.
	Invoke(ctx context.Context, name string, args map[string]any) (string, error)

	// Spec returns the declared schema for a tool name.
	Spec(name string) (ToolSpec, error)

	// Names returns the registered tool names in a stable order.
	Names() []string
}
