// ABOUTME: Tests for the JSON-RPC method dispatcher.
// ABOUTME: Covers the full method set, error codes, and notification semantics.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/picomcp/internal/registry"
	"github.com/2389/picomcp/internal/session"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *registry.Registry, *session.Manager) {
	t.Helper()

	reg := registry.New()
	sessions := session.NewManager()

	d, err := NewDispatcher(Config{
		Registry:      reg,
		Sessions:      sessions,
		Logger:        slog.Default(),
		ServerName:    "test-server",
		ServerVersion: "0.1.0",
	})
	require.NoError(t, err)

	return d, reg, sessions
}

func makeRequest(t *testing.T, id any, method string, params any) Request {
	t.Helper()

	req := Request{JSONRPC: "2.0", Method: method}
	if id != nil {
		raw, err := json.Marshal(id)
		require.NoError(t, err)
		req.ID = raw
	}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		req.Params = raw
	}
	return req
}

// roundTrip marshals and re-parses a response the way the transport
// would, returning the generic decoded form.
func roundTrip(t *testing.T, resp *Response) map[string]any {
	t.Helper()

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func TestDispatcherRequiresCollaborators(t *testing.T) {
	_, err := NewDispatcher(Config{Sessions: session.NewManager()})
	assert.Error(t, err)

	_, err = NewDispatcher(Config{Registry: registry.New()})
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	d, _, sessions := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "initialize", nil))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(InitializeResult)
	require.True(t, ok)
	assert.Equal(t, ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, "test-server", result.ServerInfo.Name)
	assert.Equal(t, "0.1.0", result.ServerInfo.Version)

	token, hasSession := sessions.Current()
	require.True(t, hasSession)
	assert.Equal(t, token, result.Meta["sessionId"])
}

func TestInitializeTwiceRotatesSession(t *testing.T) {
	d, _, sessions := newTestDispatcher(t)

	first := d.Dispatch(context.Background(), makeRequest(t, 1, "initialize", nil))
	firstToken := first.Result.(InitializeResult).Meta["sessionId"].(string)

	second := d.Dispatch(context.Background(), makeRequest(t, 2, "initialize", nil))
	secondToken := second.Result.(InitializeResult).Meta["sessionId"].(string)

	assert.NotEqual(t, firstToken, secondToken)
	assert.False(t, sessions.Validate(firstToken), "old token must be invalid")
	assert.True(t, sessions.Validate(secondToken))
}

func TestInitializedIsNotification(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), makeRequest(t, nil, "initialized", nil))
	assert.Nil(t, resp)
}

func TestPing(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), makeRequest(t, 7, "ping", nil))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	decoded := roundTrip(t, resp)
	assert.Equal(t, map[string]any{}, decoded["result"])
	assert.Equal(t, float64(7), decoded["id"])
}

func TestMethodNotFound(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "no/such/method", nil))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "no/such/method")
}

func TestToolsList(t *testing.T) {
	d, reg, _ := newTestDispatcher(t)

	schema := json.RawMessage(`{"type":"object","properties":{"x":{"type":"string"}}}`)
	reg.RegisterTool("one", "first tool", schema, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, nil
	})
	reg.RegisterTool("two", "second tool", schema, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, nil
	})

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "tools/list", nil))
	require.NotNil(t, resp)

	result, ok := resp.Result.(ListToolsResult)
	require.True(t, ok)
	require.Len(t, result.Tools, 2)
	assert.Equal(t, "one", result.Tools[0].Name)
	assert.Equal(t, "two", result.Tools[1].Name)
	assert.JSONEq(t, string(schema), string(result.Tools[0].InputSchema))
}

func TestToolsCallEcho(t *testing.T) {
	d, reg, _ := newTestDispatcher(t)

	reg.RegisterTool("echo", "echo a value", json.RawMessage(`{"type":"object"}`),
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"value": args["x"]}, nil
		})

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "tools/call",
		map[string]any{"name": "echo", "arguments": map[string]any{"x": "hi"}}))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(CallToolResult)
	require.True(t, ok)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))
	assert.Equal(t, map[string]any{"value": "hi"}, payload)
}

func TestToolsCallUnknownToolIsDataNotError(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "tools/call",
		map[string]any{"name": "missing"}))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error, "tool lookup failure must not be a JSON-RPC error")

	result := resp.Result.(CallToolResult)
	require.Len(t, result.Content, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))
	assert.Equal(t, "Tool not found: missing", payload["error"])
}

func TestToolsCallHandlerFailureIsData(t *testing.T) {
	d, reg, _ := newTestDispatcher(t)

	reg.RegisterTool("boom", "always fails", json.RawMessage(`{"type":"object"}`),
		func(_ context.Context, _ map[string]any) (any, error) {
			return nil, fmt.Errorf("kaput")
		})

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "tools/call",
		map[string]any{"name": "boom"}))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result := resp.Result.(CallToolResult)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))
	assert.Equal(t, "Tool execution failed: kaput", payload["error"])
}

func TestToolsCallMissingArgumentsDefaultsToEmpty(t *testing.T) {
	d, reg, _ := newTestDispatcher(t)

	var got map[string]any
	reg.RegisterTool("probe", "records args", json.RawMessage(`{"type":"object"}`),
		func(_ context.Context, args map[string]any) (any, error) {
			got = args
			return map[string]any{}, nil
		})

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "tools/call",
		map[string]any{"name": "probe"}))
	require.NotNil(t, resp)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResourcesList(t *testing.T) {
	d, reg, _ := newTestDispatcher(t)

	reg.RegisterResource("device://status", "Status", "device status", "application/json",
		func(_ context.Context) (string, error) { return "{}", nil })

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "resources/list", nil))
	require.NotNil(t, resp)

	result, ok := resp.Result.(ListResourcesResult)
	require.True(t, ok)
	require.Len(t, result.Resources, 1)
	assert.Equal(t, "device://status", result.Resources[0].URI)
	assert.Equal(t, "application/json", result.Resources[0].MIMEType)
}

func TestResourcesRead(t *testing.T) {
	d, reg, _ := newTestDispatcher(t)

	reg.RegisterResource("device://uptime", "Uptime", "seconds up", "text/plain",
		func(_ context.Context) (string, error) { return "42", nil })

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "resources/read",
		map[string]any{"uri": "device://uptime"}))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result := resp.Result.(ReadResourceResult)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "device://uptime", result.Contents[0].URI)
	assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	assert.Equal(t, "42", result.Contents[0].Text)
}

func TestResourcesReadUnknownURI(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "resources/read",
		map[string]any{"uri": "device://missing"}))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "device://missing")
}

func TestResourcesReadHandlerFailure(t *testing.T) {
	d, reg, _ := newTestDispatcher(t)

	reg.RegisterResource("device://flaky", "Flaky", "fails", "text/plain",
		func(_ context.Context) (string, error) { return "", fmt.Errorf("sensor offline") })

	resp := d.Dispatch(context.Background(), makeRequest(t, 1, "resources/read",
		map[string]any{"uri": "device://flaky"}))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "sensor offline")
}

func TestPanicBecomesInternalError(t *testing.T) {
	d, reg, _ := newTestDispatcher(t)

	reg.RegisterTool("panics", "panics", json.RawMessage(`{"type":"object"}`),
		func(_ context.Context, _ map[string]any) (any, error) {
			panic("unexpected")
		})

	resp := d.Dispatch(context.Background(), makeRequest(t, 9, "tools/call",
		map[string]any{"name": "panics"}))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unexpected")

	decoded := roundTrip(t, resp)
	assert.Equal(t, float64(9), decoded["id"], "panic response keeps the request id")
}

func TestResponseIDIsNullWhenAbsent(t *testing.T) {
	d, _, _ := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), makeRequest(t, nil, "ping", nil))
	require.NotNil(t, resp)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":null`)
}
