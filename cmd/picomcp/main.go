// ABOUTME: Entry point for the picomcp embedded MCP server.
// ABOUTME: Wires config, logging, registries, and the TCP listener loop.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/picomcp/internal/config"
	"github.com/2389/picomcp/internal/httpserver"
	"github.com/2389/picomcp/internal/mcp"
	"github.com/2389/picomcp/internal/registry"
	"github.com/2389/picomcp/internal/session"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
        _
  _ __ (_) ___ ___  _ __ ___   ___ _ __
 | '_ \| |/ __/ _ \| '_ ' _ \ / __| '_ \
 | |_) | | (_| (_) | | | | | | (__| |_) |
 | .__/|_|\___\___/|_| |_| |_|\___| .__/
 |_|                              |_|
`

// getConfigPath returns the path to the config file.
// Priority: PICOMCP_CONFIG env var > ./picomcp.yaml
func getConfigPath() string {
	if envPath := os.Getenv("PICOMCP_CONFIG"); envPath != "" {
		return envPath
	}
	return "picomcp.yaml"
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: picomcp <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve     Start the MCP server")
		fmt.Println("  init      Create a starter config file")
		fmt.Println("  version   Print the build version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	// Load configuration; a missing file means defaults.
	cfg := config.Default()
	if _, statErr := os.Stat(configPath); statErr == nil {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Listen:   %s\n", cfg.Server.Addr)
	green.Print("    ▶ ")
	fmt.Printf("Endpoint: http://%s/mcp\n", cfg.Server.Addr)
	fmt.Println()

	reg := registry.New()
	registerDemoTools(reg)
	registerDemoResources(reg)

	sessions := session.NewManager()

	dispatcher, err := mcp.NewDispatcher(mcp.Config{
		Registry:      reg,
		Sessions:      sessions,
		Logger:        logger,
		ServerName:    cfg.Server.Name,
		ServerVersion: cfg.Server.Version,
	})
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	srv, err := httpserver.New(httpserver.Config{
		Addr:        cfg.Server.Addr,
		Dispatcher:  dispatcher,
		Registry:    reg,
		Sessions:    sessions,
		Logger:      logger,
		ServerName:  cfg.Server.Name,
		Version:     cfg.Server.Version,
		Description: cfg.Server.Description,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info("starting picomcp",
		"config", configPath,
		"addr", cfg.Server.Addr,
		"server_name", cfg.Server.Name,
	)

	return srv.Run(ctx)
}

const starterConfig = `# picomcp configuration
server:
  addr: "0.0.0.0:8080"
  name: "picomcp"
  version: "1.0.0"
  # Optional markdown rendered on the GET / status page.
  # description: "An **embedded** MCP server."

logging:
  level: "info"   # debug, info, warn, error
  format: "text"  # text, json
`

func runInit() error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}
