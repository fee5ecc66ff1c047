package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/promptlab/promptlab/internal/domain/event"
	porteventbus "github.com/promptlab/promptlab/internal/port/eventbus"
)

// SessionRegistry is the in-memory registry of active MCP sessions. It
// forwards change events to every connected client as log notifications so
// assistants can refresh their view of the prompt library.
//
// [SRP] Session storage and notification dispatch only.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]time.Time // sessionID → connected at

	// mcpSrv is set after the MCP server is constructed (avoids circular init dependency).
	mcpMu  sync.RWMutex
	mcpSrv *mcpserver.MCPServer
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]time.Time),
	}
}

// SetMCPServer injects the mcp-go server after construction.
func (r *SessionRegistry) SetMCPServer(s *mcpserver.MCPServer) {
	r.mcpMu.Lock()
	r.mcpSrv = s
	r.mcpMu.Unlock()
}

func (r *SessionRegistry) Register(sessionID string) {
	r.mu.Lock()
	r.sessions[sessionID] = time.Now().UTC()
	r.mu.Unlock()
}

// Unregister removes a session when it closes and reports whether it was known.
func (r *SessionRegistry) Unregister(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return false
	}
	delete(r.sessions, sessionID)
	return true
}

func (r *SessionRegistry) IsConnected(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[sessionID]
	return ok
}

func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Attach forwards every bus event to the connected sessions until the
// returned subscription is cancelled.
func (r *SessionRegistry) Attach(ctx context.Context, bus porteventbus.EventBus) (porteventbus.Subscription, error) {
	return bus.Subscribe(ctx, func(ctx context.Context, e event.Event) {
		if err := r.Notify(ctx, e); err != nil {
			slog.WarnContext(ctx, "mcp: notify sessions", "event", e.Type, "error", err)
		}
	})
}

// Notify sends e to every registered session. It is a no-op with no
// sessions; with sessions but no MCP server set it returns an error. The last
// delivery error, if any, is returned after all sessions have been tried.
func (r *SessionRegistry) Notify(_ context.Context, e event.Event) error {
	r.mu.RLock()
	targets := make([]string, 0, len(r.sessions))
	for sessionID := range r.sessions {
		targets = append(targets, sessionID)
	}
	r.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	r.mcpMu.RLock()
	srv := r.mcpSrv
	r.mcpMu.RUnlock()

	if srv == nil {
		return fmt.Errorf("mcp server not initialized")
	}

	params, err := toParams(e)
	if err != nil {
		return fmt.Errorf("serialize notification: %w", err)
	}

	var lastErr error
	for _, sessionID := range targets {
		if err := srv.SendNotificationToSpecificClient(sessionID, "notifications/message", params); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func toParams(e event.Event) (map[string]any, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"level":  "info",
		"logger": "promptlab",
		"data":   json.RawMessage(data),
	}, nil
}
