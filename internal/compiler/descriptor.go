// Package compiler walks a GraphQL type system and derives MCP tool
// descriptors: one callable tool per exposable field, with a JSON Schema
// parameter schema, a precomputed selection fragment, and the bindings
// needed to reconstruct the GraphQL operation at call time.
package compiler

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/vektah/gqlparser/v2/ast"
)

// OperationKind determines whether a tool is gated by the mutation-allow flag.
type OperationKind string

const (
	OperationQuery    OperationKind = "query"
	OperationMutation OperationKind = "mutation"
)

// Selection depth budgets. Local field resolution is cheap, remote
// round-trips are not, so remote selections stay shallow.
const (
	DefaultLocalDepth  = 5
	DefaultRemoteDepth = 2
)

// FieldRef identifies one field in the GraphQL type graph.
type FieldRef struct {
	Parent *ast.Definition
	Field  *ast.FieldDefinition
}

// Parameter is one entry in a tool's input schema. Parameters keep their
// declaration order from the schema.
type Parameter struct {
	Name        string
	Description string
	Required    bool
	Type        *ast.Type
	Default     *ast.Value
	Schema      *jsonschema.Schema
}

// Binding maps a compiled parameter back to the origin-path field that
// declares the underlying GraphQL argument. Consumed at call time to
// reconstruct the nested argument structure.
type Binding struct {
	Param     string
	PathIndex int
	Argument  string
}

// HiddenDefault is an argument excluded from the parameter schema whose
// schema-declared default is always supplied at invocation time.
type HiddenDefault struct {
	PathIndex int
	Argument  string
	Value     *ast.Value
}

// Tool is the compiled unit exposed through the MCP server. Immutable
// after synthesis.
type Tool struct {
	Name        string
	Description string
	Kind        OperationKind

	// OriginPath is the nested-field chain from a root field down to the
	// field this tool invokes. Length 1 for top-level tools.
	OriginPath []FieldRef

	Params   []Parameter
	Bindings []Binding
	Hidden   []HiddenDefault

	// Selection is the precomputed selection fragment for the return
	// type, empty when the return type is a leaf.
	Selection string

	// ReturnType is the payload type as delivered to the caller: the
	// leaf field's type lifted through any list-typed ancestors on the
	// origin path.
	ReturnType   *ast.Type
	InputSchema  *jsonschema.Schema
	OutputSchema *jsonschema.Schema
}

// Leaf returns the final field in the origin path.
func (t *Tool) Leaf() FieldRef {
	return t.OriginPath[len(t.OriginPath)-1]
}

// Param looks up a compiled parameter by name.
func (t *Tool) Param(name string) *Parameter {
	for i := range t.Params {
		if t.Params[i].Name == name {
			return &t.Params[i]
		}
	}
	return nil
}
