package mcp

import (
	"context"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	collectionsvc "github.com/promptlab/promptlab/internal/service/collection"
	promptsvc "github.com/promptlab/promptlab/internal/service/prompt"
)

// Server wraps the mark3labs/mcp-go MCPServer and its StreamableHTTPServer.
// [SRP] HTTP server lifecycle and session open/close only.
//
//	Tools are registered in tools.go, prompts in prompts.go, session state in registry.go.
type Server struct {
	httpSrv *mcpserver.StreamableHTTPServer
	reg     *SessionRegistry
}

// New creates the MCP transport server. The MCPServer reference is set on
// reg after construction.
func New(
	reg *SessionRegistry,
	version string,
	promptSvc *promptsvc.Service,
	collectionSvc *collectionsvc.Service,
) *Server {
	s := &Server{reg: reg}

	hooks := &mcpserver.Hooks{}
	hooks.OnRegisterSession = append(hooks.OnRegisterSession, s.onSessionOpen)
	hooks.OnUnregisterSession = append(hooks.OnUnregisterSession, s.onSessionClose)

	mcpSrv := mcpserver.NewMCPServer(
		"promptlab",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithLogging(),
		mcpserver.WithHooks(hooks),
	)

	// Inject the mcp-go server into the registry (breaks the init cycle).
	reg.SetMCPServer(mcpSrv)

	RegisterTools(mcpSrv, promptSvc, collectionSvc)
	RegisterPrompts(mcpSrv, promptSvc)

	s.httpSrv = mcpserver.NewStreamableHTTPServer(mcpSrv)
	return s
}

// Handler returns an http.Handler that serves the MCP endpoint.
func (s *Server) Handler() http.Handler {
	return s.httpSrv
}

func (s *Server) Registry() *SessionRegistry {
	return s.reg
}

func (s *Server) onSessionOpen(ctx context.Context, session mcpserver.ClientSession) {
	s.reg.Register(session.SessionID())
	slog.InfoContext(ctx, "mcp: session opened", "session_id", session.SessionID())
}

func (s *Server) onSessionClose(ctx context.Context, session mcpserver.ClientSession) {
	if !s.reg.Unregister(session.SessionID()) {
		return
	}
	slog.InfoContext(ctx, "mcp: session closed", "session_id", session.SessionID())
}
