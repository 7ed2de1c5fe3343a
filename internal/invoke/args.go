package invoke

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"graphmcp/internal/compiler"
)

// BindArguments validates raw JSON arguments against the tool's parameter
// schema and returns the variable values to send. Parameters the caller
// did not supply are absent from the result (dropped, not null); an
// explicit JSON null is kept.
func BindArguments(schema *ast.Schema, tool *compiler.Tool, raw json.RawMessage) (map[string]any, error) {
	supplied := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &supplied); err != nil {
			return nil, &ValidationError{Tool: tool.Name, Message: "arguments must be a JSON object"}
		}
	}

	vars := make(map[string]any, len(supplied))
	var missing []string

	for i := range tool.Params {
		p := &tool.Params[i]
		rawValue, ok := supplied[p.Name]
		delete(supplied, p.Name)
		if !ok {
			if p.Required {
				missing = append(missing, p.Name)
			}
			continue
		}

		var value any
		if err := json.Unmarshal(rawValue, &value); err != nil {
			return nil, &ValidationError{Tool: tool.Name, Message: fmt.Sprintf("parameter %s is not valid JSON", p.Name)}
		}

		coerced, err := coerceValue(schema, p.Type, value)
		if err != nil {
			return nil, &ValidationError{Tool: tool.Name, Message: fmt.Sprintf("parameter %s: %v", p.Name, err)}
		}
		vars[p.Name] = coerced
	}

	if len(missing) > 0 {
		return nil, missingParams(tool.Name, missing)
	}
	if len(supplied) > 0 {
		unknown := make([]string, 0, len(supplied))
		for name := range supplied {
			unknown = append(unknown, name)
		}
		return nil, &ValidationError{Tool: tool.Name, Message: "unknown parameters: " + strings.Join(unknown, ", ")}
	}

	return vars, nil
}

// coerceValue normalizes enum inputs to their canonical spelling,
// case-insensitively, walking through list wrappers. Other values pass
// through for the GraphQL engine to validate.
func coerceValue(schema *ast.Schema, t *ast.Type, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	if t.Elem != nil {
		items, ok := value.([]any)
		if !ok {
			// A single value for a list-typed argument is valid GraphQL
			// input coercion; wrap it.
			item, err := coerceValue(schema, t.Elem, value)
			if err != nil {
				return nil, err
			}
			return []any{item}, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			coerced, err := coerceValue(schema, t.Elem, item)
			if err != nil {
				return nil, err
			}
			out[i] = coerced
		}
		return out, nil
	}

	enum := compiler.EnumDef(schema, t)
	if enum == nil {
		return value, nil
	}

	text, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected a %s enum value", enum.Name)
	}
	resolved, ok := compiler.ResolveEnumValue(enum, text)
	if !ok {
		return nil, fmt.Errorf("%q is not a value of enum %s", text, enum.Name)
	}
	return resolved, nil
}
