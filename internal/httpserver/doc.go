// Package httpserver carries the transport half of the MCP server: a
// hand-rolled HTTP/1.1 framer over a raw TCP socket, the per-connection
// router, and the sequential accept loop.
//
// # Why Not net/http
//
// The server models a memory-constrained embedded device with one
// execution context: one connection is framed, dispatched, answered, and
// closed before the next accept, with no keep-alive, no concurrency, and
// no read deadlines. net/http's connection management would hide exactly
// the behavior this transport pins down, so framing is done directly on
// the byte stream.
//
// # Routing
//
// Requests route by method and path, in precedence order:
//
//	OPTIONS *    - 204, CORS preflight
//	DELETE /mcp  - session termination (exact Mcp-Session-Id match)
//	POST /mcp    - the JSON-RPC pipeline (single or batch)
//	GET /mcp     - 501, server-push streaming is unsupported
//	GET /        - HTML diagnostics page
//	otherwise    - 404
//
// Every response carries the CORS header set; whenever a session token
// exists it is echoed in Mcp-Session-Id. A POST with an empty body is
// dropped without any response, a quirk preserved from the observed
// transport behavior.
package httpserver
