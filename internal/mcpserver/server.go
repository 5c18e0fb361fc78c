// Package mcpserver runs the MCP stdio server: it advertises the fixed tool
// catalog, stamps every inbound call with a request-id, dispatches to the
// tool handlers under a per-call deadline, and shuts down quietly when the
// client hangs up.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"checkmkmcp/internal/api"
	"checkmkmcp/internal/requestid"
	"checkmkmcp/internal/tools"
	"checkmkmcp/pkg/logging"
)

// ServerName is the identity advertised in the initialize handshake.
const ServerName = "checkmk-mcp-server"

// DefaultCallTimeout bounds a single tool invocation.
const DefaultCallTimeout = 60 * time.Second

// Server wraps the mcp-go stdio server around the tool registry.
type Server struct {
	mcp         *server.MCPServer
	callTimeout time.Duration
	toolCount   int
}

// New builds the MCP server and registers every tool from the registry.
func New(version string, registry *tools.Registry, callTimeout time.Duration) *Server {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}

	m := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{mcp: m, callTimeout: callTimeout, toolCount: registry.Len()}
	for _, def := range registry.Definitions() {
		m.AddTool(def.Tool, s.adapt(def))
	}
	return s
}

// adapt wraps one tool definition into an mcp-go handler: request-id
// middleware, per-call deadline, panic containment, and uniform result
// serialization.
func (s *Server) adapt(def tools.Definition) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := requestid.New()
		ctx = requestid.WithContext(ctx, id)
		ctx = logging.WithRequestID(ctx, id)

		ctx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()

		args := map[string]interface{}{}
		if m, ok := req.Params.Arguments.(map[string]interface{}); ok {
			args = m
		}

		logging.DebugCtx(ctx, "MCPServer", "dispatching %s", def.Tool.Name)
		result := s.invoke(ctx, def, args)

		payload, err := json.Marshal(result)
		if err != nil {
			// The handler returned something unserializable; degrade to a
			// minimal error envelope rather than dropping the call.
			logging.ErrorCtx(ctx, "MCPServer", err, "serializing result of %s", def.Tool.Name)
			fallback := api.Fail(ctx, api.KindInternal, "result serialization failed")
			payload, _ = json.Marshal(fallback)
			return mcp.NewToolResultError(string(payload)), nil
		}
		if !result.Success {
			return mcp.NewToolResultError(string(payload)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

// invoke runs the handler, translating errors and panics into the uniform
// result envelope. Error messages are sanitized before leaving the process.
func (s *Server) invoke(ctx context.Context, def tools.Definition, args map[string]interface{}) (result *api.ServiceResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorCtx(ctx, "MCPServer", fmt.Errorf("%v", r), "panic in tool %s", def.Tool.Name)
			result = api.Fail(ctx, api.KindInternal,
				fmt.Sprintf("internal error handling %s; see server log for request %s", def.Tool.Name, requestid.FromContext(ctx)))
		}
	}()

	data, warnings, err := def.Handler(ctx, args)
	if err != nil {
		kind := api.Classify(err)
		if kind != api.KindInvalidArguments {
			logging.ErrorCtx(ctx, "MCPServer", err, "tool %s failed", def.Tool.Name)
		}
		return api.Fail(ctx, kind, Sanitize(err.Error()))
	}
	return api.OK(ctx, data, warnings...)
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the client
// disconnects. A broken pipe, connection reset, or closed stdin during a
// normal client hang-up is suppressed and reported as a clean exit.
func (s *Server) Run(ctx context.Context) error {
	logging.Info("MCPServer", "serving %d tools over stdio", s.toolCount)

	stdio := server.NewStdioServer(s.mcp)
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		logging.Info("MCPServer", "shutdown requested, draining")
		return nil
	case IsClientDisconnect(err):
		logging.Debug("MCPServer", "client disconnected: %v", err)
		return nil
	default:
		return err
	}
}
