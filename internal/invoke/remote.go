package invoke

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"

	"graphmcp/internal/client"
	"graphmcp/internal/compiler"
	"graphmcp/internal/ctxkeys"
)

// RemoteInvoker executes tools against an upstream GraphQL endpoint over
// HTTP. Operation documents are prebuilt once per tool with every
// parameter bound, then pruned per call down to the variables the caller
// supplied.
type RemoteInvoker struct {
	Client *client.Client
	Schema *ast.Schema

	// ForwardAuth forwards the caller's bearer token to the upstream
	// endpoint instead of the client's configured credentials.
	ForwardAuth bool

	mu  sync.RWMutex
	ops map[string]string
}

// Prepare prebuilds the full operation document for each tool. Safe to
// call again after a re-synthesis.
func (r *RemoteInvoker) Prepare(tools []*compiler.Tool) {
	ops := make(map[string]string, len(tools))
	for _, t := range tools {
		ops[t.Name] = ComposeFull(t)
	}
	r.mu.Lock()
	r.ops = ops
	r.mu.Unlock()
}

func (r *RemoteInvoker) operation(tool *compiler.Tool) string {
	r.mu.RLock()
	doc, ok := r.ops[tool.Name]
	r.mu.RUnlock()
	if !ok {
		doc = ComposeFull(tool)
	}
	return doc
}

// Invoke binds the raw arguments, prunes the prebuilt document to the
// supplied variables, and posts it upstream.
func (r *RemoteInvoker) Invoke(ctx context.Context, tool *compiler.Tool, raw json.RawMessage) (any, error) {
	vars, err := BindArguments(r.Schema, tool, raw)
	if err != nil {
		return nil, err
	}

	query, err := PruneVariables(r.operation(tool), vars)
	if err != nil {
		return nil, &ExecutionError{Tool: tool.Name, Remote: true, Messages: []string{err.Error()}}
	}

	req := client.Request{
		Query:         query,
		OperationName: compiler.OperationName(tool.Name),
		Variables:     vars,
	}
	if r.ForwardAuth {
		req.BearerToken = ctxkeys.GetBearerToken(ctx)
	}

	resp, err := r.Client.Do(ctx, req)
	if err != nil {
		return nil, &ExecutionError{Tool: tool.Name, Remote: true, Messages: []string{err.Error()}}
	}
	if len(resp.Errors) > 0 {
		return nil, &ExecutionError{Tool: tool.Name, Remote: true, Messages: resp.Errors.Messages()}
	}

	value := unwrapPath(resp.Data, tool.OriginPath)
	return coerceLists(r.Schema, tool.ReturnType, value), nil
}
