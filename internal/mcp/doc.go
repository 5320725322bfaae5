// Package mcp implements the JSON-RPC 2.0 method dispatcher for the MCP
// Streamable HTTP transport (spec revision 2025-03-26).
//
// # Methods
//
// The dispatcher handles a fixed method set:
//
//	initialize      - mint a session token, report server info
//	initialized     - notification, no reply
//	tools/list      - tool schema documents in registration order
//	tools/call      - invoke a tool handler
//	resources/list  - resource schema documents in registration order
//	resources/read  - read a resource by URI
//	ping            - liveness check, empty result
//
// Unknown methods produce a -32601 error; panics anywhere in dispatch
// become a -32603 error carrying the request id when determinable.
//
// # Error Shapes
//
// Tool failures (unknown name, handler error) are reported as data: the
// tools/call result wraps an error-shaped JSON payload in its content
// item, so the JSON-RPC envelope still succeeds. Resource failures
// instead surface as -32602 errors. The asymmetry mirrors how MCP
// clients consume the two methods.
//
// # State
//
// Dispatch holds no per-call state. The only cross-call state is the
// single session token owned by internal/session and the registries in
// internal/registry.
package mcp
