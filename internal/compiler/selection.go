package compiler

import (
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/vektah/gqlparser/v2/ast"
)

// Fragment is a rendered selection set plus the JSON Schema describing
// the data it retrieves. Text is empty when the type needs no selection.
type Fragment struct {
	Text   string
	Schema *jsonschema.Schema
}

// SelectionBuilder produces the minimal selection fragment needed to
// retrieve scalar data from an output type, bounded by a depth budget.
type SelectionBuilder struct {
	Schema *ast.Schema
	Mapper *Mapper
}

// Build constructs the fragment for an output type. Object fields beyond
// maxDepth, and fields whose type is already on the current branch, are
// omitted. An object with nothing selectable degenerates to __typename.
func (b *SelectionBuilder) Build(t *ast.Type, maxDepth int) Fragment {
	return b.build(t, maxDepth, map[string]bool{})
}

func (b *SelectionBuilder) build(t *ast.Type, depth int, visited map[string]bool) Fragment {
	if t.Elem != nil {
		inner := b.build(t.Elem, depth, visited)
		s := &jsonschema.Schema{Type: "array", Items: inner.Schema}
		if !t.NonNull {
			s = nullable(s)
		}
		return Fragment{Text: inner.Text, Schema: s}
	}

	def := b.Schema.Types[t.NamedType]
	if def == nil || isLeafKind(def.Kind) {
		return Fragment{Schema: b.Mapper.MapLeaf(t.NamedType, t.NonNull)}
	}

	visited[def.Name] = true
	fields, schema := b.selectFields(def, depth, visited)
	delete(visited, def.Name)
	text := "{ " + strings.Join(fields, " ") + " }"
	if !t.NonNull {
		schema = nullable(schema)
	}
	return Fragment{Text: text, Schema: schema}
}

func (b *SelectionBuilder) selectFields(def *ast.Definition, depth int, visited map[string]bool) ([]string, *jsonschema.Schema) {
	var fields []string
	props := map[string]*jsonschema.Schema{}

	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}

		base := baseTypeName(f.Type)
		fieldDef := b.Schema.Types[base]
		if fieldDef == nil || isLeafKind(fieldDef.Kind) {
			fields = append(fields, f.Name)
			props[f.Name] = b.leafFieldSchema(f.Type)
			continue
		}

		// Composite field: descend only while the budget lasts and the
		// type is not already on this branch.
		if depth-1 <= 0 || visited[base] {
			continue
		}
		visited[base] = true
		sub, subSchema := b.selectFields(fieldDef, depth-1, visited)
		delete(visited, base)

		fields = append(fields, f.Name+" { "+strings.Join(sub, " ")+" }")
		props[f.Name] = wrapCompositeSchema(f.Type, subSchema)
	}

	if len(fields) == 0 {
		fields = []string{"__typename"}
		props["__typename"] = &jsonschema.Schema{Type: "string"}
	}

	return fields, &jsonschema.Schema{Type: "object", Properties: props}
}

// leafFieldSchema maps a leaf-typed field, preserving list wrappers and
// nullability.
func (b *SelectionBuilder) leafFieldSchema(t *ast.Type) *jsonschema.Schema {
	if t.Elem != nil {
		s := &jsonschema.Schema{Type: "array", Items: b.leafFieldSchema(t.Elem)}
		if !t.NonNull {
			s = nullable(s)
		}
		return s
	}
	return b.Mapper.MapLeaf(t.NamedType, t.NonNull)
}

// wrapCompositeSchema applies a field's list wrappers and nullability to
// the schema of its selected sub-object.
func wrapCompositeSchema(t *ast.Type, object *jsonschema.Schema) *jsonschema.Schema {
	if t.Elem != nil {
		s := &jsonschema.Schema{Type: "array", Items: wrapCompositeSchema(t.Elem, object)}
		if !t.NonNull {
			s = nullable(s)
		}
		return s
	}
	if !t.NonNull {
		return nullable(object)
	}
	return object
}

func isLeafKind(kind ast.DefinitionKind) bool {
	return kind == ast.Scalar || kind == ast.Enum
}

// baseTypeName unwraps list wrappers down to the named type.
func baseTypeName(t *ast.Type) string {
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}
