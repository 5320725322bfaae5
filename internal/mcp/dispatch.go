// ABOUTME: JSON-RPC method dispatcher for the MCP surface.
// ABOUTME: Maps the fixed method set onto the registry and session manager.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/2389/picomcp/internal/registry"
	"github.com/2389/picomcp/internal/session"
)

// Config holds the collaborators and identity for a Dispatcher.
type Config struct {
	Registry      *registry.Registry
	Sessions      *session.Manager
	Logger        *slog.Logger
	ServerName    string
	ServerVersion string
}

// Dispatcher interprets parsed JSON-RPC requests. It holds no per-call
// state; the only mutation it performs is minting session tokens on
// initialize.
type Dispatcher struct {
	registry      *registry.Registry
	sessions      *session.Manager
	logger        *slog.Logger
	serverName    string
	serverVersion string
}

// NewDispatcher creates a Dispatcher from cfg. Registry and Sessions are
// required.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.ServerName
	if name == "" {
		name = "picomcp"
	}
	version := cfg.ServerVersion
	if version == "" {
		version = "1.0.0"
	}

	return &Dispatcher{
		registry:      cfg.Registry,
		sessions:      cfg.Sessions,
		logger:        logger,
		serverName:    name,
		serverVersion: version,
	}, nil
}

// Dispatch handles a single JSON-RPC request and returns the response to
// send, or nil for notifications. A panic anywhere below is converted to
// an internal-error response carrying the request id.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic in dispatch", "method", req.Method, "panic", r)
			resp = errorResponse(req.ID, CodeInternalError, fmt.Sprintf("Internal error: %v", r))
		}
	}()

	d.logger.Debug("dispatching request", "method", req.Method, "id", string(req.ID))

	switch req.Method {
	case "initialize":
		return d.handleInitialize(req)
	case "initialized":
		// Client confirms initialization; notifications get no reply.
		d.logger.Debug("client confirmed initialization")
		return nil
	case "tools/list":
		return d.handleToolsList(req)
	case "tools/call":
		return d.handleToolsCall(ctx, req)
	case "resources/list":
		return d.handleResourcesList(req)
	case "resources/read":
		return d.handleResourcesRead(ctx, req)
	case "ping":
		return resultResponse(req.ID, map[string]any{})
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found: "+req.Method)
	}
}

func (d *Dispatcher) handleInitialize(req Request) *Response {
	token := d.sessions.Create()
	d.logger.Info("session created", "session_id", token)

	return resultResponse(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    Capabilities{Tools: map[string]any{}},
		ServerInfo:      ServerInfo{Name: d.serverName, Version: d.serverVersion},
		Meta:            map[string]any{"sessionId": token},
	})
}

func (d *Dispatcher) handleToolsList(req Request) *Response {
	tools := d.registry.Tools()
	result := ListToolsResult{Tools: make([]ToolInfo, len(tools))}
	for i, t := range tools {
		result.Tools[i] = ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
	}
	return resultResponse(req.ID, result)
}

// handleToolsCall invokes a tool handler. Lookup and execution failures
// are reported as data inside the result content, never as JSON-RPC
// errors, so clients always see a successful envelope.
func (d *Dispatcher) handleToolsCall(ctx context.Context, req Request) *Response {
	var params CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInternalError, "Internal error: "+err.Error())
		}
	}
	if params.Arguments == nil {
		params.Arguments = map[string]any{}
	}

	value := d.executeTool(ctx, params.Name, params.Arguments)

	text, err := json.Marshal(value)
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, "Internal error: "+err.Error())
	}

	return resultResponse(req.ID, CallToolResult{
		Content: []Content{{Type: "text", Text: string(text)}},
	})
}

func (d *Dispatcher) executeTool(ctx context.Context, name string, args map[string]any) any {
	tool, ok := d.registry.Tool(name)
	if !ok {
		return map[string]any{"error": "Tool not found: " + name}
	}

	result, err := tool.Handler(ctx, args)
	if err != nil {
		d.logger.Warn("tool execution failed", "tool", name, "error", err)
		return map[string]any{"error": "Tool execution failed: " + err.Error()}
	}
	return result
}

func (d *Dispatcher) handleResourcesList(req Request) *Response {
	resources := d.registry.Resources()
	result := ListResourcesResult{Resources: make([]ResourceInfo, len(resources))}
	for i, res := range resources {
		result.Resources[i] = ResourceInfo{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MIMEType,
		}
	}
	return resultResponse(req.ID, result)
}

// handleResourcesRead reads a resource. Unlike tools/call, failures here
// surface as JSON-RPC invalid-params errors.
func (d *Dispatcher) handleResourcesRead(ctx context.Context, req Request) *Response {
	var params ReadResourceParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInternalError, "Internal error: "+err.Error())
		}
	}

	res, ok := d.registry.Resource(params.URI)
	if !ok {
		return errorResponse(req.ID, CodeInvalidParams, "Resource not found: "+params.URI)
	}

	content, err := res.Handler(ctx)
	if err != nil {
		d.logger.Warn("resource fetch failed", "uri", params.URI, "error", err)
		return errorResponse(req.ID, CodeInvalidParams, "Resource fetch failed: "+err.Error())
	}

	return resultResponse(req.ID, ReadResourceResult{
		Contents: []ResourceContent{{URI: params.URI, MIMEType: res.MIMEType, Text: content}},
	})
}

func resultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message}}
}
