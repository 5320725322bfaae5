// ABOUTME: Demo tools and resources registered by the picomcp binary.
// ABOUTME: Small host-introspection handlers standing in for device peripherals.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/2389/picomcp/internal/registry"
)

var startTime = time.Now()

func registerDemoTools(reg *registry.Registry) {
	reg.RegisterTool(
		"echo",
		"Echo back the provided value",
		json.RawMessage(`{"type":"object","properties":{"value":{"type":"string"}},"required":["value"]}`),
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"value": args["value"]}, nil
		},
	)

	reg.RegisterTool(
		"add",
		"Add two numbers",
		json.RawMessage(`{"type":"object","properties":{"a":{"type":"number"},"b":{"type":"number"}},"required":["a","b"]}`),
		func(_ context.Context, args map[string]any) (any, error) {
			a, aok := args["a"].(float64)
			b, bok := args["b"].(float64)
			if !aok || !bok {
				return nil, fmt.Errorf("a and b must be numbers")
			}
			return map[string]any{"sum": a + b}, nil
		},
	)

	reg.RegisterTool(
		"system_info",
		"Report host platform and memory statistics",
		json.RawMessage(`{"type":"object","properties":{}}`),
		func(_ context.Context, _ map[string]any) (any, error) {
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			hostname, _ := os.Hostname()
			return map[string]any{
				"hostname":    hostname,
				"os":          runtime.GOOS,
				"arch":        runtime.GOARCH,
				"go_version":  runtime.Version(),
				"heap_alloc":  mem.HeapAlloc,
				"num_gc":      mem.NumGC,
				"goroutines":  runtime.NumGoroutine(),
				"uptime_secs": int64(time.Since(startTime).Seconds()),
			}, nil
		},
	)
}

func registerDemoResources(reg *registry.Registry) {
	reg.RegisterResource(
		"device://status",
		"Device Status",
		"Current device status as JSON",
		"application/json",
		func(_ context.Context) (string, error) {
			hostname, _ := os.Hostname()
			out, err := json.Marshal(map[string]any{
				"hostname": hostname,
				"os":       runtime.GOOS,
				"arch":     runtime.GOARCH,
				"online":   true,
			})
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	)

	reg.RegisterResource(
		"device://uptime",
		"Device Uptime",
		"Seconds since the server started",
		"text/plain",
		func(_ context.Context) (string, error) {
			return fmt.Sprintf("%d", int64(time.Since(startTime).Seconds())), nil
		},
	)
}
