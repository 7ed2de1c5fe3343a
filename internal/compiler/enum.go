package compiler

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// ResolveEnumValue matches caller input against an enum's declared values
// and returns the canonical spelling. Exact matches win; otherwise the
// comparison is case-insensitive, so "high", "HIGH" and "High" all
// resolve to the same declared value.
func ResolveEnumValue(def *ast.Definition, input string) (string, bool) {
	for _, v := range def.EnumValues {
		if v.Name == input {
			return v.Name, true
		}
	}
	for _, v := range def.EnumValues {
		if strings.EqualFold(v.Name, input) {
			return v.Name, true
		}
	}
	return "", false
}

// EnumDef resolves the enum definition behind a (possibly wrapped) type,
// or nil when the base type is not an enum.
func EnumDef(schema *ast.Schema, t *ast.Type) *ast.Definition {
	def := schema.Types[baseTypeName(t)]
	if def != nil && def.Kind == ast.Enum {
		return def
	}
	return nil
}
