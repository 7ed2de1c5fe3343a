package invoke

import (
	"fmt"
	"strings"

	"graphmcp/internal/compiler"
)

// ComposeOperation renders the GraphQL operation for a tool given the
// variables the caller actually supplied. Unsupplied optional parameters
// are omitted from both the variable declarations and the argument
// lists, so schema-side defaults apply. Hidden-argument defaults are
// inlined as literals.
func ComposeOperation(tool *compiler.Tool, supplied map[string]any) string {
	include := func(param string) bool {
		_, ok := supplied[param]
		return ok
	}
	return compose(tool, include)
}

// ComposeFull renders the operation with every compiled parameter bound,
// whether or not a caller will supply it. Used to prebuild documents
// that are pruned per call.
func ComposeFull(tool *compiler.Tool) string {
	return compose(tool, func(string) bool { return true })
}

func compose(tool *compiler.Tool, include func(param string) bool) string {
	var decls []string
	for i := range tool.Params {
		p := &tool.Params[i]
		if !include(p.Name) {
			continue
		}
		decls = append(decls, fmt.Sprintf("$%s: %s", p.Name, p.Type.String()))
	}

	var b strings.Builder
	b.WriteString(string(tool.Kind))
	b.WriteString(" ")
	b.WriteString(compiler.OperationName(tool.Name))
	if len(decls) > 0 {
		b.WriteString("(")
		b.WriteString(strings.Join(decls, ", "))
		b.WriteString(")")
	}

	for i, ref := range tool.OriginPath {
		b.WriteString(" { ")
		b.WriteString(ref.Field.Name)
		writeArguments(&b, tool, i, include)
	}

	if tool.Selection != "" {
		b.WriteString(" ")
		b.WriteString(tool.Selection)
	}

	for range tool.OriginPath {
		b.WriteString(" }")
	}

	return b.String()
}

// writeArguments renders the argument list for one origin-path level:
// supplied parameter bindings as variable references, hidden defaults as
// inline literals.
func writeArguments(b *strings.Builder, tool *compiler.Tool, pathIndex int, include func(param string) bool) {
	var args []string
	for _, bind := range tool.Bindings {
		if bind.PathIndex != pathIndex || !include(bind.Param) {
			continue
		}
		args = append(args, fmt.Sprintf("%s: $%s", bind.Argument, bind.Param))
	}
	for _, h := range tool.Hidden {
		if h.PathIndex != pathIndex {
			continue
		}
		args = append(args, fmt.Sprintf("%s: %s", h.Argument, h.Value.String()))
	}
	if len(args) > 0 {
		b.WriteString("(")
		b.WriteString(strings.Join(args, ", "))
		b.WriteString(")")
	}
}
