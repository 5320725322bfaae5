// ABOUTME: Single-slot session manager for the MCP Streamable HTTP transport.
// ABOUTME: One token at a time; initialize replaces it, DELETE clears it, no timeout.

package session

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager holds at most one active session token. A new token is minted
// by Create (replacing any prior one silently) and removed only by Clear.
// Tokens never expire on their own.
type Manager struct {
	mu       sync.Mutex
	serverID string
	token    string
	lastMS   int64
}

// NewManager creates a Manager with a fresh server instance id. The id
// is the stable half of every token this manager mints.
func NewManager() *Manager {
	return &Manager{
		serverID: strings.ReplaceAll(uuid.New().String(), "-", ""),
	}
}

// Create mints a new session token and stores it, replacing any existing
// token. The token is the server instance id plus a millisecond
// timestamp, nudged forward so back-to-back calls still differ;
// uniqueness is best-effort, not cryptographic.
func (m *Manager) Create() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms := time.Now().UnixMilli()
	if ms <= m.lastMS {
		ms = m.lastMS + 1
	}
	m.lastMS = ms

	m.token = m.serverID + "-" + strconv.FormatInt(ms, 10)
	return m.token
}

// Current returns the active token, if any.
func (m *Manager) Current() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// Clear removes the active token unconditionally.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}

// Validate reports whether token matches the active token exactly.
// It always fails when no session is active.
func (m *Manager) Validate(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && token == m.token
}
