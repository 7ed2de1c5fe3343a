// Package graphmcp derives Model Context Protocol tools from a GraphQL
// schema: one tool per exposable field, with a compiled parameter schema
// and a precomputed selection fragment. Tools execute either against an
// in-process GraphQL engine or a remote endpoint over HTTP.
package graphmcp

import (
	"github.com/vektah/gqlparser/v2/ast"

	"graphmcp/internal/client"
	"graphmcp/internal/compiler"
	"graphmcp/internal/invoke"
	"graphmcp/internal/server"
)

// Options re-exports the synthesis options for embedders.
type Options = compiler.Options

// AddLocalTools compiles tools from the schema and registers them on the
// server, executing calls in-process against exec. A zero SelectionDepth
// selects the local budget: in-process field resolution is cheap, so
// selections run deeper than the remote default.
func AddLocalTools(srv *server.Server, schema *ast.Schema, exec invoke.Executor, opts Options) ([]*compiler.Tool, error) {
	if opts.SelectionDepth <= 0 {
		opts.SelectionDepth = compiler.DefaultLocalDepth
	}
	tools, err := compiler.Synthesize(schema, opts)
	if err != nil {
		return nil, err
	}
	srv.RegisterTools(schema, tools, &invoke.LocalInvoker{Schema: schema, Executor: exec})
	return tools, nil
}

// AddRemoteTools compiles tools from the schema and registers them on the
// server, executing calls against the remote endpoint behind c. Operation
// documents are prebuilt once and pruned per call. forwardAuth forwards
// the MCP caller's bearer token upstream instead of the client's own
// credentials.
func AddRemoteTools(srv *server.Server, schema *ast.Schema, c *client.Client, forwardAuth bool, opts Options) ([]*compiler.Tool, error) {
	tools, err := compiler.Synthesize(schema, opts)
	if err != nil {
		return nil, err
	}
	invoker := &invoke.RemoteInvoker{Client: c, Schema: schema, ForwardAuth: forwardAuth}
	invoker.Prepare(tools)
	srv.RegisterTools(schema, tools, invoker)
	return tools, nil
}
