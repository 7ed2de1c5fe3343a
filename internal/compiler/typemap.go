package compiler

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/vektah/gqlparser/v2/ast"
)

// Mapper converts GraphQL types to JSON Schema descriptors. Custom scalar
// mappings are an injectable table, not hardcoded.
type Mapper struct {
	schema  *ast.Schema
	scalars map[string]*jsonschema.Schema
}

// NewMapper creates a type mapper for the schema. Entries in scalars
// override or extend the default custom-scalar table.
func NewMapper(schema *ast.Schema, scalars map[string]*jsonschema.Schema) *Mapper {
	table := DefaultScalarSchemas()
	for name, s := range scalars {
		table[name] = s
	}
	return &Mapper{schema: schema, scalars: table}
}

// DefaultScalarSchemas returns mappings for custom scalars commonly found
// in the wild. Unrecognized scalars fall back to a permissive schema.
func DefaultScalarSchemas() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"DateTime": {Type: "string", Format: "date-time"},
		"Date":     {Type: "string", Format: "date"},
		"Time":     {Type: "string", Format: "time"},
		"UUID":     {Type: "string", Format: "uuid"},
		"JSON":     {},
		"Bytes":    {Type: "string", Format: "byte"},
	}
}

// MapInput maps a GraphQL input type to its JSON Schema descriptor.
// Unmappable types degrade to a permissive schema rather than erroring.
func (m *Mapper) MapInput(t *ast.Type) *jsonschema.Schema {
	return m.mapInput(t, map[string]bool{})
}

func (m *Mapper) mapInput(t *ast.Type, visited map[string]bool) *jsonschema.Schema {
	if t.Elem != nil {
		return &jsonschema.Schema{Type: "array", Items: m.mapInput(t.Elem, visited)}
	}

	if s, ok := builtinScalarSchema(t.NamedType); ok {
		return s
	}

	def := m.schema.Types[t.NamedType]
	if def == nil {
		return &jsonschema.Schema{}
	}

	switch def.Kind {
	case ast.Scalar:
		if s, ok := m.scalars[def.Name]; ok {
			return cloneSchema(s)
		}
		return &jsonschema.Schema{}
	case ast.Enum:
		return enumSchema(def)
	case ast.InputObject:
		// Recursive input types re-enter here; emit a permissive schema
		// on revisit to keep the descriptor finite.
		if visited[def.Name] {
			return &jsonschema.Schema{Type: "object"}
		}
		visited[def.Name] = true
		defer delete(visited, def.Name)
		return m.mapInputObject(def, visited)
	default:
		return &jsonschema.Schema{}
	}
}

func (m *Mapper) mapInputObject(def *ast.Definition, visited map[string]bool) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(def.Fields))
	var required []string
	for _, f := range def.Fields {
		s := m.mapInput(f.Type, visited)
		if f.Description != "" {
			s = cloneSchema(s)
			s.Description = f.Description
		}
		props[f.Name] = s
		if f.Type.NonNull && f.DefaultValue == nil {
			required = append(required, f.Name)
		}
	}
	return &jsonschema.Schema{
		Type:        "object",
		Description: def.Description,
		Properties:  props,
		Required:    required,
	}
}

// MapLeaf maps a scalar or enum named type to its output descriptor.
// nonNull widens the schema with "null" when false so that response
// validation accepts nullable fields.
func (m *Mapper) MapLeaf(name string, nonNull bool) *jsonschema.Schema {
	var s *jsonschema.Schema
	if builtin, ok := builtinScalarSchema(name); ok {
		s = builtin
	} else if def := m.schema.Types[name]; def != nil && def.Kind == ast.Enum {
		s = enumSchema(def)
	} else if custom, ok := m.scalars[name]; ok {
		s = cloneSchema(custom)
	} else {
		return &jsonschema.Schema{}
	}
	if !nonNull {
		s = nullable(s)
	}
	return s
}

func builtinScalarSchema(name string) (*jsonschema.Schema, bool) {
	switch name {
	case "String":
		return &jsonschema.Schema{Type: "string"}, true
	case "ID":
		return &jsonschema.Schema{Type: "string"}, true
	case "Int":
		return &jsonschema.Schema{Type: "integer"}, true
	case "Float":
		return &jsonschema.Schema{Type: "number"}, true
	case "Boolean":
		return &jsonschema.Schema{Type: "boolean"}, true
	}
	return nil, false
}

func enumSchema(def *ast.Definition) *jsonschema.Schema {
	values := make([]any, 0, len(def.EnumValues))
	for _, v := range def.EnumValues {
		values = append(values, v.Name)
	}
	return &jsonschema.Schema{Type: "string", Enum: values}
}

// nullable widens a schema to additionally accept JSON null.
func nullable(s *jsonschema.Schema) *jsonschema.Schema {
	out := cloneSchema(s)
	if out.Type != "" {
		out.Types = []string{out.Type, "null"}
		out.Type = ""
	}
	if len(out.Enum) > 0 {
		out.Enum = append(append([]any{}, out.Enum...), nil)
	}
	return out
}

func cloneSchema(s *jsonschema.Schema) *jsonschema.Schema {
	c := *s
	return &c
}
