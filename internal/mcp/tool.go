package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// ContentBlock is a single piece of tool output.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the result payload of a tools/call request. Tool failures are
// reported in-band with IsError rather than as JSON-RPC errors, so that
// clients can surface them to the model.
type CallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError"`
}

// TextResult wraps text in a successful call result.
func TextResult(text string) *CallResult {
	return &CallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// ErrorResult wraps a formatted error message in a failed call result.
func ErrorResult(format string, args ...any) *CallResult {
	return &CallResult{
		Content: []ContentBlock{{Type: "text", Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// ToolHandler executes a tool with its raw JSON arguments.
type ToolHandler func(ctx context.Context, args json.RawMessage) (*CallResult, error)

// Tool describes a callable tool and its JSON schema.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Handler     ToolHandler    `json:"-"`
}

// ToolRegistry holds the tools exposed through tools/list and tools/call.
// Listing preserves registration order.
type ToolRegistry struct {
	mu     sync.RWMutex
	order  []string
	lookup map[string]Tool
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{lookup: make(map[string]Tool)}
}

// Register adds a tool. Registering a duplicate name is a programming error.
func (r *ToolRegistry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q has no handler", t.Name)
	}
	if _, exists := r.lookup[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}

	r.order = append(r.order, t.Name)
	r.lookup[t.Name] = t
	return nil
}

// Get returns the named tool.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.lookup[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *ToolRegistry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.lookup[name])
	}
	return tools
}
