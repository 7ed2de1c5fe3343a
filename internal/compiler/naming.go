package compiler

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a schema's conventional camelCase field name to
// snake_case. Acronyms are lower-cased word-by-word at case-transition
// boundaries: getUserByID -> get_user_by_id.
func ToSnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUpper := i > 0 && unicode.IsUpper(runes[i-1])
			if prevLower || (prevUpper && nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// ResolveName converts an origin path into the canonical external tool
// name: each ancestor's resolved leaf-name joined to the final field's
// leaf-name with underscores, preserving chain order.
func ResolveName(path []FieldRef) string {
	parts := make([]string, 0, len(path))
	for _, ref := range path {
		parts = append(parts, ToSnakeCase(ref.Field.Name))
	}
	return strings.Join(parts, "_")
}

// OperationName derives a PascalCase GraphQL operation name from a tool
// name, used when composing operation documents.
func OperationName(toolName string) string {
	parts := strings.Split(toolName, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
