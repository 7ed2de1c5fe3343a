package compiler

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// HiddenArgs flags schema arguments that are excluded from tool parameter
// schemas, keyed by "Type.field.argument". The flag itself is externally
// defined; this side table is populated once at schema load.
type HiddenArgs map[string]bool

// HiddenKey builds the side-table key for one argument.
func HiddenKey(typeName, fieldName, argName string) string {
	return typeName + "." + fieldName + "." + argName
}

// Hidden reports whether the argument is flagged.
func (h HiddenArgs) Hidden(typeName, fieldName, argName string) bool {
	return h[HiddenKey(typeName, fieldName, argName)]
}

// CollectHiddenArgs scans the schema for arguments carrying the named
// directive and returns the populated side table. An empty directive name
// disables the scan.
func CollectHiddenArgs(schema *ast.Schema, directive string) HiddenArgs {
	hidden := HiddenArgs{}
	if directive == "" {
		return hidden
	}
	for _, def := range schema.Types {
		if def.Kind != ast.Object && def.Kind != ast.Interface {
			continue
		}
		for _, field := range def.Fields {
			for _, arg := range field.Arguments {
				if arg.Directives.ForName(directive) != nil {
					hidden[HiddenKey(def.Name, field.Name, arg.Name)] = true
				}
			}
		}
	}
	return hidden
}

// ParseHiddenArgs parses a comma-separated list of "Type.field.argument"
// entries, the configuration-side way to flag arguments on schemas whose
// metadata cannot carry directives (remote introspection strips them).
func ParseHiddenArgs(raw string) HiddenArgs {
	hidden := HiddenArgs{}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			hidden[entry] = true
		}
	}
	return hidden
}

// Merge folds extra entries into the table.
func (h HiddenArgs) Merge(extra HiddenArgs) {
	for key, v := range extra {
		if v {
			h[key] = true
		}
	}
}
