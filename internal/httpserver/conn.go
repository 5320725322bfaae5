// ABOUTME: Per-connection request handling: route, dispatch, serialize, close.
// ABOUTME: One connection is fully drained and answered before the next is accepted.

package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/2389/picomcp/internal/mcp"
)

// handleConn owns one accepted connection from first byte to close. The
// connection is closed exactly once on every exit path; a panic anywhere
// below becomes a best-effort 500 response.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic handling connection", "remote", conn.RemoteAddr(), "panic", r)
			body, _ := json.Marshal(map[string]string{"error": fmt.Sprint(r)})
			s.writeResponse(conn, "500 Internal Server Error", "application/json", string(body), nil)
		}
	}()

	frame, err := ReadFrame(conn)
	if err != nil {
		// Framing failures get no reply at all.
		s.logger.Debug("dropping connection", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	s.logger.Debug("request", "method", frame.Method, "path", frame.Path, "remote", conn.RemoteAddr())

	switch {
	case frame.Method == "OPTIONS":
		// CORS preflight for any path.
		s.writeResponse(conn, "204 No Content", "text/plain", "", nil)

	case frame.Method == "DELETE" && frame.Path == "/mcp":
		s.handleSessionDelete(conn, frame)

	case frame.Method == "POST" && frame.Path == "/mcp":
		s.handleRPC(ctx, conn, frame)

	case frame.Method == "GET" && frame.Path == "/mcp":
		body, _ := json.Marshal(map[string]string{"error": "GET/SSE streaming not implemented"})
		s.writeResponse(conn, "501 Not Implemented", "application/json", string(body), nil)

	case frame.Method == "GET" && frame.Path == "/":
		s.writeResponse(conn, "200 OK", "text/html", s.renderStatusPage(), nil)

	default:
		s.writeResponse(conn, "404 Not Found", "text/plain", "Not Found", nil)
	}
}

// handleSessionDelete terminates the session when the presented header
// matches the current token exactly. No current session means nothing
// can match.
func (s *Server) handleSessionDelete(conn net.Conn, frame *Frame) {
	if s.sessions.Validate(frame.Header("mcp-session-id")) {
		s.sessions.Clear()
		s.logger.Info("session terminated")
		s.writeResponse(conn, "200 OK", "application/json", "{}", nil)
		return
	}
	s.writeResponse(conn, "404 Not Found", "application/json", `{"error":"Session not found"}`, nil)
}

// handleRPC runs the JSON-RPC pipeline for POST /mcp, covering single
// requests, batches, and notifications.
func (s *Server) handleRPC(ctx context.Context, conn net.Conn, frame *Frame) {
	body := frame.Body
	if body == "" {
		// Known quirk carried over from the observed behavior: an empty
		// body is dropped without any HTTP response.
		s.logger.Warn("empty POST body, dropping request", "remote", conn.RemoteAddr())
		return
	}

	var responseBody string
	if strings.HasPrefix(strings.TrimSpace(body), "[") {
		var reqs []mcp.Request
		if err := json.Unmarshal([]byte(body), &reqs); err != nil {
			s.writeParseError(conn, err)
			return
		}
		responses := make([]*mcp.Response, 0, len(reqs))
		for _, req := range reqs {
			if resp := s.dispatcher.Dispatch(ctx, req); resp != nil {
				responses = append(responses, resp)
			}
		}
		out, err := json.Marshal(responses)
		if err != nil {
			s.writeParseError(conn, err)
			return
		}
		responseBody = string(out)
	} else {
		var req mcp.Request
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			s.writeParseError(conn, err)
			return
		}
		resp := s.dispatcher.Dispatch(ctx, req)
		if resp == nil {
			// Notification: valid HTTP reply, no JSON-RPC body.
			s.writeResponse(conn, "204 No Content", "application/json", "", nil)
			return
		}
		out, err := json.Marshal(resp)
		if err != nil {
			s.writeParseError(conn, err)
			return
		}
		responseBody = string(out)
	}

	extra := map[string]string{}
	if token, ok := s.sessions.Current(); ok {
		extra["Mcp-Session-Id"] = token
	}
	s.writeResponse(conn, "200 OK", "application/json", responseBody, extra)
}

// writeParseError sends the id-less -32700 body used for unparseable
// RPC payloads.
func (s *Server) writeParseError(conn net.Conn, err error) {
	body, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"error": map[string]any{
			"code":    mcp.CodeParseError,
			"message": "Parse error: " + err.Error(),
		},
	})
	s.writeResponse(conn, "400 Bad Request", "application/json", string(body), nil)
}

// writeResponse serializes one HTTP response. Every response carries the
// CORS header set. When extra is nil and a session exists, the session
// header is attached; callers that manage the header themselves pass a
// non-nil map.
func (s *Server) writeResponse(conn net.Conn, status, contentType, body string, extra map[string]string) {
	var b strings.Builder
	b.WriteString("HTTP/1.1 " + status + "\r\n")
	b.WriteString("Content-Type: " + contentType + "\r\n")
	b.WriteString("Access-Control-Allow-Origin: *\r\n")
	b.WriteString("Access-Control-Allow-Methods: POST, GET, OPTIONS, DELETE\r\n")
	b.WriteString("Access-Control-Allow-Headers: Content-Type, Mcp-Session-Id\r\n")

	if extra == nil {
		if token, ok := s.sessions.Current(); ok {
			b.WriteString("Mcp-Session-Id: " + token + "\r\n")
		}
	}
	for key, value := range extra {
		b.WriteString(key + ": " + value + "\r\n")
	}

	b.WriteString("Content-Length: " + strconv.Itoa(len(body)) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	if _, err := conn.Write([]byte(b.String())); err != nil {
		s.logger.Debug("write failed", "remote", conn.RemoteAddr(), "error", err)
	}
}
