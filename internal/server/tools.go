package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/vektah/gqlparser/v2/ast"

	"graphmcp/internal/compiler"
	"graphmcp/internal/invoke"
	"graphmcp/internal/mcperrors"
)

// Invoker executes a compiled tool. Local and remote invokers both
// satisfy this.
type Invoker interface {
	Invoke(ctx context.Context, tool *compiler.Tool, raw json.RawMessage) (any, error)
}

// RegisterTools registers every compiled tool on the MCP server, routing
// calls through the invoker.
func (s *Server) RegisterTools(schema *ast.Schema, tools []*compiler.Tool, invoker Invoker) {
	for _, tool := range tools {
		s.registerTool(schema, tool, invoker)
	}
	s.tools = tools

	if s.metrics != nil {
		s.metrics.ToolsActive.Set(float64(len(tools)))
	}
	if s.logger != nil {
		s.logger.WithField("tools", len(tools)).Info("MCP tools registered")
	}
}

func (s *Server) registerTool(schema *ast.Schema, tool *compiler.Tool, invoker Invoker) {
	wrap := wrapsResult(schema, tool.ReturnType)

	outputSchema := tool.OutputSchema
	if wrap {
		outputSchema = &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"result": tool.OutputSchema},
			Required:   []string{"result"},
		}
	}

	s.mcpServer.AddTool(
		&mcp.Tool{
			Name:         tool.Name,
			Description:  tool.Description,
			InputSchema:  tool.InputSchema,
			OutputSchema: outputSchema,
		},
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			value, err := invoker.Invoke(ctx, tool, req.Params.Arguments)
			if err != nil {
				// Argument validation failures are protocol errors;
				// execution failures surface as tool results so the
				// calling model can read and react to them.
				var vErr *invoke.ValidationError
				if errors.As(err, &vErr) {
					return nil, mcperrors.InvalidParams(vErr.Error())
				}
				return toolError(err.Error()), nil
			}
			return toolSuccess(value, wrap)
		},
	)
}

// wrapsResult reports whether a tool's payload must be enveloped under a
// "result" key. MCP structured content is always a JSON object; scalar
// and list payloads are not.
func wrapsResult(schema *ast.Schema, t *ast.Type) bool {
	if t == nil || t.Elem != nil {
		return true
	}
	def := schema.Types[t.NamedType]
	if def == nil {
		return true
	}
	switch def.Kind {
	case ast.Object, ast.Interface, ast.Union:
		return false
	default:
		return true
	}
}

// toolError returns an error result carrying the message verbatim.
func toolError(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// toolSuccess returns the payload both as JSON text and as structured
// content matching the tool's output schema.
func toolSuccess(value any, wrap bool) (*mcp.CallToolResult, error) {
	structured := value
	if wrap {
		structured = map[string]any{"result": value}
	}

	// An unencodable payload is a server defect, not something the
	// calling model can react to, so it surfaces as a protocol error.
	text, err := json.Marshal(structured)
	if err != nil {
		return nil, mcperrors.Internal(fmt.Sprintf("failed to encode result: %v", err))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(text)},
		},
		StructuredContent: structured,
	}, nil
}
