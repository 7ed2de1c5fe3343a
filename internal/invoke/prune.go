package invoke

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// PruneVariables rewrites a GraphQL document so that it only declares
// and references the variables present in vars. Arguments bound to an
// unsupplied variable are removed entirely, letting schema-side defaults
// take effect instead of sending explicit nulls.
func PruneVariables(query string, vars map[string]any) (string, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return "", fmt.Errorf("failed to parse operation for pruning: %w", err)
	}

	keep := func(name string) bool {
		_, ok := vars[name]
		return ok
	}

	for _, op := range doc.Operations {
		kept := op.VariableDefinitions[:0]
		for _, def := range op.VariableDefinitions {
			if keep(def.Variable) {
				kept = append(kept, def)
			}
		}
		op.VariableDefinitions = kept
		pruneSelections(op.SelectionSet, keep)
	}
	for _, frag := range doc.Fragments {
		pruneSelections(frag.SelectionSet, keep)
	}

	var b strings.Builder
	formatter.NewFormatter(&b).FormatQueryDocument(doc)
	return b.String(), nil
}

func pruneSelections(set ast.SelectionSet, keep func(string) bool) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			kept := s.Arguments[:0]
			for _, arg := range s.Arguments {
				if value := pruneValue(arg.Value, keep); value != nil {
					arg.Value = value
					kept = append(kept, arg)
				}
			}
			s.Arguments = kept
			pruneSelections(s.SelectionSet, keep)
		case *ast.InlineFragment:
			pruneSelections(s.SelectionSet, keep)
		}
	}
}

// pruneValue drops variable references to unsupplied variables. Object
// fields bound to a pruned variable are removed from the object; a list
// or object that becomes empty of variables is kept as-is.
func pruneValue(v *ast.Value, keep func(string) bool) *ast.Value {
	switch v.Kind {
	case ast.Variable:
		if !keep(v.Raw) {
			return nil
		}
	case ast.ObjectValue:
		kept := v.Children[:0]
		for _, child := range v.Children {
			if value := pruneValue(child.Value, keep); value != nil {
				child.Value = value
				kept = append(kept, child)
			}
		}
		v.Children = kept
	case ast.ListValue:
		kept := v.Children[:0]
		for _, child := range v.Children {
			if value := pruneValue(child.Value, keep); value != nil {
				child.Value = value
				kept = append(kept, child)
			}
		}
		v.Children = kept
	}
	return v
}
