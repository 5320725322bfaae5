// ABOUTME: JSON-RPC 2.0 wire types and MCP result shapes.
// ABOUTME: Request ids are kept as raw JSON so clients get back exactly what they sent.

package mcp

import "encoding/json"

// ProtocolVersion is the MCP protocol revision advertised in initialize
// responses.
const ProtocolVersion = "2025-03-26"

// Request represents a JSON-RPC 2.0 request. A nil ID marks a
// notification by convention, though dispatch only treats the
// initialized method as one.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result and
// Error is set. The id field is always emitted, null when the request
// carried none.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ToolInfo is the wire form of a tool schema document in tools/list.
type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResult is the result for tools/list.
type ListToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// CallToolParams are the params for tools/call.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Content is a single content item in a tools/call result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the result for tools/call. Handler failures are
// carried inside Content as error-shaped JSON, not as JSON-RPC errors.
type CallToolResult struct {
	Content []Content `json:"content"`
}

// ResourceInfo is the wire form of a resource schema document in
// resources/list.
type ResourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// ListResourcesResult is the result for resources/list.
type ListResourcesResult struct {
	Resources []ResourceInfo `json:"resources"`
}

// ReadResourceParams are the params for resources/read.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContent is a single content entry in a resources/read result.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

// ReadResourceResult is the result for resources/read.
type ReadResourceResult struct {
	Contents []ResourceContent `json:"contents"`
}

// InitializeResult is the result for initialize. Meta carries the newly
// minted session id under the sessionId key.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    Capabilities   `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
	Meta            map[string]any `json:"_meta"`
}

// Capabilities advertises what this server supports. Tools is always
// present; there are no optional capability flags yet.
type Capabilities struct {
	Tools map[string]any `json:"tools"`
}

// ServerInfo identifies the server in initialize responses.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
