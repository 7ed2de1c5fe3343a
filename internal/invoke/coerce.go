package invoke

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// coerceLists replaces null values in list-typed positions with empty
// lists, recursively through the response shape. Downstream consumers
// iterate list fields without null checks.
func coerceLists(schema *ast.Schema, t *ast.Type, value any) any {
	if t == nil {
		return value
	}

	if t.Elem != nil {
		if value == nil {
			return []any{}
		}
		items, ok := value.([]any)
		if !ok {
			return value
		}
		for i := range items {
			items[i] = coerceLists(schema, t.Elem, items[i])
		}
		return items
	}

	def := schema.Types[t.NamedType]
	if def == nil || (def.Kind != ast.Object && def.Kind != ast.Interface) {
		return value
	}
	m, ok := value.(map[string]any)
	if !ok {
		return value
	}
	for _, field := range def.Fields {
		if v, present := m[field.Name]; present {
			m[field.Name] = coerceLists(schema, field.Type, v)
		}
	}
	return m
}
