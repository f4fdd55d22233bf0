package tools

import (
	"context"
	"fmt"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ToolRegistry = (*Registry)(nil)

// Registry maps fixed capability names to handlers. The mapping is
// assembled at startup and is read-only afterwards, so lookups need no
// locking.
type Registry struct {
	specs    map[string]driven.ToolSpec
	handlers map[string]driven.ToolHandler
	names    []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		specs:    make(map[string]driven.ToolSpec),
		handlers: make(map[string]driven.ToolHandler),
	}
}

// Register adds a tool under its spec name. Registering the same name
// twice replaces the handler but keeps the original position.
func (r *Registry) Register(spec driven.ToolSpec, handler driven.ToolHandler) {
	if _, exists := r.specs[spec.Name]; !exists {
		r.names = append(r.names, spec.Name)
	}
	r.specs[spec.Name] = spec
	r.handlers[spec.Name] = handler
}

// Invoke validates args against the named tool's schema and runs it.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	spec, ok := r.specs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}

	if err := validateArgs(spec, args); err != nil {
		return "", err
	}

	result, err := r.handlers[name](ctx, args)
	if err != nil {
		return "", fmt.Errorf("%s: %v: %w", name, err, domain.ErrToolFailed)
	}
	return result, nil
}

// Spec returns the declared schema for a tool name.
func (r *Registry) Spec(name string) (driven.ToolSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return driven.ToolSpec{}, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}
	return spec, nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// validateArgs checks required parameters and declared types before the
// handler runs.
func validateArgs(spec driven.ToolSpec, args map[string]any) error {
	for _, param := range spec.Params {
		val, present := args[param.Name]
		if !present {
			if param.Required {
				return fmt.Errorf("%w: %s requires parameter %q", domain.ErrInvalidInput, spec.Name, param.Name)
			}
			continue
		}

		switch param.Type {
		case "string":
			if _, ok := val.(string); !ok {
				return fmt.Errorf("%w: parameter %q must be a string", domain.ErrInvalidInput, param.Name)
			}
		case "number":
			switch val.(type) {
			case float64, int, int64:
			default:
				return fmt.Errorf("%w: parameter %q must be a number", domain.ErrInvalidInput, param.Name)
			}
		}
	}
	return nil
}
