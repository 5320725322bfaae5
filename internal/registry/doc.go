// Package registry holds the tables of tools and resources the server
// exposes over MCP.
//
// # Overview
//
// A tool is a named, schema-described operation a client can invoke via
// tools/call. A resource is a URI-addressed readable data source served
// via resources/read. Both are registered once at startup and live for
// the process lifetime.
//
// # Registration
//
// Registration is last-wins: registering an existing name or URI replaces
// the prior entry while keeping its position in listing order. Input
// schemas are opaque JSON documents forwarded to clients verbatim; the
// registry never validates them.
//
// # Handlers
//
// Handlers are opaque callables. The registry stores and returns them but
// never invokes them; invocation and error wrapping happen in the
// dispatcher (see internal/mcp).
package registry
