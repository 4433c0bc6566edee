package tools

import (
	"fmt"

	"roomservice/gateway"
	"roomservice/validation"
)

// Registry maps tool names to implementations
type Registry map[string]Tool

// NewRegistry creates the tool registry for one session's capabilities.
func NewRegistry(validator *validation.Validator, gw gateway.Gateway) (*Registry, error) {
	tools := map[string]Tool{
		"order_validator": NewOrderValidator(validator),
		"order_placer":    NewOrderPlacer(gw),
	}

	registry := Registry(tools)
	return &registry, nil
}

// GetTools returns all tools in the registry as a slice
func (r *Registry) GetTools() []Tool {
	tools := make([]Tool, 0, len(*r))
	for _, tool := range *r {
		tools = append(tools, tool)
	}
	return tools
}

// GetTool retrieves a tool by name from the registry
func (r Registry) GetTool(name string) (Tool, error) {
	tool, exists := r[name]
	if !exists {
		return nil, fmt.Errorf("tool %q not found in registry", name)
	}
	return tool, nil
}
