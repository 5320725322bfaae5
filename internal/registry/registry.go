// ABOUTME: In-memory registries for tools and resources exposed over MCP.
// ABOUTME: Preserves registration order for listing; last registration wins per key.

package registry

import (
	"context"
	"encoding/json"
	"sync"
)

// ToolHandler executes a tool call with the decoded JSON-RPC arguments.
// The returned value must be JSON-serializable.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// ResourceHandler produces the current content of a resource.
type ResourceHandler func(ctx context.Context) (string, error)

// Tool describes a registered tool. InputSchema is passed through to
// clients verbatim and never validated here.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     ToolHandler
}

// Resource describes a registered resource, addressed by URI.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Handler     ResourceHandler
}

// Registry holds the tool and resource tables. Re-registering a key
// silently replaces the prior entry in place, keeping its listing
// position. There is no removal operation.
type Registry struct {
	mu        sync.RWMutex
	tools     map[string]*Tool
	toolOrder []string
	resources map[string]*Resource
	resOrder  []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		tools:     make(map[string]*Tool),
		resources: make(map[string]*Resource),
	}
}

// RegisterTool adds or replaces a tool under its name.
func (r *Registry) RegisterTool(name, description string, inputSchema json.RawMessage, handler ToolHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		r.toolOrder = append(r.toolOrder, name)
	}
	r.tools[name] = &Tool{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
		Handler:     handler,
	}
}

// RegisterResource adds or replaces a resource under its URI.
func (r *Registry) RegisterResource(uri, name, description, mimeType string, handler ResourceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[uri]; !exists {
		r.resOrder = append(r.resOrder, uri)
	}
	r.resources[uri] = &Resource{
		URI:         uri,
		Name:        name,
		Description: description,
		MIMEType:    mimeType,
		Handler:     handler,
	}
}

// Tool returns the tool registered under name. Lookup is exact and
// case-sensitive.
func (r *Registry) Tool(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Resource returns the resource registered under uri.
func (r *Registry) Resource(uri string) (*Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resources[uri]
	return res, ok
}

// Tools returns all registered tools in registration order.
func (r *Registry) Tools() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Tool, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		out = append(out, r.tools[name])
	}
	return out
}

// Resources returns all registered resources in registration order.
func (r *Registry) Resources() []*Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Resource, 0, len(r.resOrder))
	for _, uri := range r.resOrder {
		out = append(out, r.resources[uri])
	}
	return out
}

// ToolCount returns the number of registered tools.
func (r *Registry) ToolCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// ResourceCount returns the number of registered resources.
func (r *Registry) ResourceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resources)
}
