package compiler

import (
	"fmt"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// ConfigError is a compile-time configuration error: the schema asks for
// something synthesis cannot honor, such as a hidden argument with no
// default. Fatal at startup, never deferred to call time.
type ConfigError struct {
	Type     string
	Field    string
	Argument string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid tool configuration at %s.%s(%s): %s", e.Type, e.Field, e.Argument, e.Reason)
}

// ArgumentCompiler flattens a field's own arguments, merges in ancestor
// arguments with disambiguating prefixes, and applies hidden-argument
// filtering.
type ArgumentCompiler struct {
	Mapper *Mapper
	Hidden HiddenArgs
}

// Compile builds the parameter schema for an origin path. Ancestor
// arguments are prefixed with the ancestor's resolved leaf-name; the leaf
// field's own arguments keep unprefixed names.
func (c *ArgumentCompiler) Compile(path []FieldRef) ([]Parameter, []Binding, []HiddenDefault, error) {
	var (
		params   []Parameter
		bindings []Binding
		hidden   []HiddenDefault
	)
	seen := map[string]bool{}

	for i, ref := range path {
		prefix := ""
		if i < len(path)-1 {
			prefix = ToSnakeCase(ref.Field.Name) + "_"
		}

		for _, arg := range ref.Field.Arguments {
			if c.Hidden.Hidden(ref.Parent.Name, ref.Field.Name, arg.Name) {
				if arg.DefaultValue == nil {
					return nil, nil, nil, &ConfigError{
						Type:     ref.Parent.Name,
						Field:    ref.Field.Name,
						Argument: arg.Name,
						Reason:   "hidden argument must declare a default value",
					}
				}
				hidden = append(hidden, HiddenDefault{PathIndex: i, Argument: arg.Name, Value: arg.DefaultValue})
				continue
			}

			name := uniqueName(seen, prefix+ToSnakeCase(arg.Name))
			schema := cloneSchema(c.Mapper.MapInput(arg.Type))
			schema.Description = arg.Description
			if arg.DefaultValue != nil {
				if schema.Description != "" {
					schema.Description += " "
				}
				schema.Description += fmt.Sprintf("(default: %s)", arg.DefaultValue.String())
			}

			params = append(params, Parameter{
				Name:        name,
				Description: arg.Description,
				Required:    arg.Type.NonNull && arg.DefaultValue == nil,
				Type:        arg.Type,
				Default:     arg.DefaultValue,
				Schema:      schema,
			})
			bindings = append(bindings, Binding{Param: name, PathIndex: i, Argument: arg.Name})
		}
	}

	return params, bindings, hidden, nil
}

// uniqueName guards the parameter-key uniqueness invariant when an
// ancestor prefix collides with a leaf argument name.
func uniqueName(seen map[string]bool, name string) string {
	candidate := name
	for n := 2; seen[candidate]; n++ {
		candidate = name + "_" + strconv.Itoa(n)
	}
	seen[candidate] = true
	return candidate
}

// inputSchema assembles the tool-level input object schema from compiled
// parameters.
func inputSchema(params []Parameter) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(params))
	var required []string
	for _, p := range params {
		props[p.Name] = p.Schema
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}
