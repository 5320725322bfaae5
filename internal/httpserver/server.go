// ABOUTME: TCP listener loop for the embedded MCP server.
// ABOUTME: Accepts connections sequentially; per-connection failures never kill the loop.

package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/2389/picomcp/internal/mcp"
	"github.com/2389/picomcp/internal/registry"
	"github.com/2389/picomcp/internal/session"
)

// DefaultAddr is the bind address used when config leaves it empty.
const DefaultAddr = "0.0.0.0:8080"

// Config holds the collaborators and identity for a Server.
type Config struct {
	Addr        string
	Dispatcher  *mcp.Dispatcher
	Registry    *registry.Registry
	Sessions    *session.Manager
	Logger      *slog.Logger
	ServerName  string
	Version     string
	Description string // optional markdown shown on the status page
}

// Server binds a TCP socket and serves the MCP HTTP surface one
// connection at a time. There is no keep-alive, no concurrency, and no
// read timeout; a silent peer stalls the loop until it closes.
type Server struct {
	addr        string
	dispatcher  *mcp.Dispatcher
	registry    *registry.Registry
	sessions    *session.Manager
	logger      *slog.Logger
	serverName  string
	version     string
	description string
}

// New creates a Server from cfg. Dispatcher, Registry, and Sessions are
// required.
func New(cfg Config) (*Server, error) {
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := cfg.ServerName
	if name == "" {
		name = "picomcp"
	}
	version := cfg.Version
	if version == "" {
		version = "1.0.0"
	}

	return &Server{
		addr:        addr,
		dispatcher:  cfg.Dispatcher,
		registry:    cfg.Registry,
		sessions:    cfg.Sessions,
		logger:      logger,
		serverName:  name,
		version:     version,
		description: cfg.Description,
	}, nil
}

// Run binds the listener and accepts connections until ctx is cancelled.
// Each connection is handled to completion before the next accept.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", s.addr, err)
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.logger.Info("mcp server listening",
		"addr", s.addr,
		"endpoint", "/mcp",
		"tools", s.registry.ToolCount(),
		"resources", s.registry.ResourceCount(),
	)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("mcp server stopped")
				return nil
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}
		s.handleConn(ctx, conn)
	}
}
