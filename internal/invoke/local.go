package invoke

import (
	"context"
	"encoding/json"

	"github.com/vektah/gqlparser/v2/ast"

	"graphmcp/internal/client"
	"graphmcp/internal/compiler"
	"graphmcp/internal/ctxkeys"
)

// Executor runs a GraphQL operation against an in-process engine. The
// gateway's own executable schema satisfies this; tests substitute fakes.
type Executor interface {
	Execute(ctx context.Context, req client.Request) (*client.Response, error)
}

// LocalInvoker executes tools against an in-process GraphQL engine,
// composing each operation fresh from the supplied arguments.
type LocalInvoker struct {
	Schema   *ast.Schema
	Executor Executor
}

// Invoke binds the raw arguments, composes the operation, executes it,
// and unwraps the nested payload down to the tool's leaf field.
func (l *LocalInvoker) Invoke(ctx context.Context, tool *compiler.Tool, raw json.RawMessage) (any, error) {
	vars, err := BindArguments(l.Schema, tool, raw)
	if err != nil {
		return nil, err
	}

	req := client.Request{
		Query:         ComposeOperation(tool, vars),
		OperationName: compiler.OperationName(tool.Name),
		Variables:     vars,
	}
	req.BearerToken = ctxkeys.GetBearerToken(ctx)

	resp, err := l.Executor.Execute(ctx, req)
	if err != nil {
		return nil, &ExecutionError{Tool: tool.Name, Messages: []string{err.Error()}}
	}
	if len(resp.Errors) > 0 {
		return nil, &ExecutionError{Tool: tool.Name, Messages: resp.Errors.Messages()}
	}

	// No response rewriting here: the in-process engine's payload is
	// authoritative, only the origin-path nesting is peeled off.
	return unwrapPath(resp.Data, tool.OriginPath), nil
}

// unwrapPath digs through the response envelope along the origin path so
// the caller sees the leaf field's payload, not the nesting the
// composed operation introduced. List-typed intermediate fields map the
// remaining path over each element.
func unwrapPath(value any, path []compiler.FieldRef) any {
	if len(path) == 0 || value == nil {
		return value
	}
	switch v := value.(type) {
	case map[string]any:
		return unwrapPath(v[path[0].Field.Name], path[1:])
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = unwrapPath(item, path)
		}
		return items
	default:
		return nil
	}
}
