// Package server exposes compiled tools through a Model Context Protocol
// server, over streamable HTTP or stdio.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"graphmcp/internal/compiler"
	"graphmcp/internal/ctxkeys"
	"graphmcp/internal/logging"
	"graphmcp/internal/monitoring"
	"graphmcp/internal/version"
)

// Server wraps the MCP server with tool registration and telemetry.
type Server struct {
	mcpServer *mcp.Server
	logger    logging.Logger
	metrics   *monitoring.MetricsCollector
	tools     []*compiler.Tool
}

// Config holds configuration for the MCP server.
type Config struct {
	Name    string
	Logger  logging.Logger
	Metrics *monitoring.MetricsCollector
}

// New creates an MCP server. Tools are registered separately so the
// caller can re-synthesize and re-register after a schema change.
func New(cfg Config) *Server {
	name := cfg.Name
	if name == "" {
		name = "graphmcp"
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version.Version,
		}, nil),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}

	s.registerCallMiddleware()

	return s
}

// registerCallMiddleware logs each tool call and records call metrics.
func (s *Server) registerCallMiddleware() {
	s.mcpServer.AddReceivingMiddleware(func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}

			toolName := "unknown"
			if params, ok := req.GetParams().(*mcp.CallToolParamsRaw); ok && params != nil {
				toolName = params.Name
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			duration := time.Since(start)

			status := "ok"
			if err != nil {
				status = "error"
			} else if toolResult, ok := result.(*mcp.CallToolResult); ok && toolResult != nil && toolResult.IsError {
				status = "error"
			}

			if s.metrics != nil {
				s.metrics.RecordToolCall(toolName, status, duration)
			}
			if s.logger != nil {
				s.logger.WithFields(logging.Fields{
					"tool":        toolName,
					"status":      status,
					"duration_ms": duration.Milliseconds(),
					"request_id":  ctxkeys.GetRequestID(ctx),
				}).Info("Tool call")
			}

			return result, err
		}
	})
}

// HTTPHandler returns an HTTP handler for the MCP server. Caller bearer
// tokens and a request correlation ID are placed in the request context
// before the protocol handler runs.
func (s *Server) HTTPHandler() http.Handler {
	baseHandler := mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			return s.mcpServer
		},
		&mcp.StreamableHTTPOptions{},
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			ctx = ctxkeys.WithBearerToken(ctx, strings.TrimPrefix(auth, "Bearer "))
		}
		ctx = ctxkeys.WithRequestID(ctx, uuid.NewString())
		baseHandler.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RunStdio serves the MCP protocol over stdin/stdout until the context
// is canceled or the stream closes.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Tools returns the currently registered tools.
func (s *Server) Tools() []*compiler.Tool {
	return s.tools
}
