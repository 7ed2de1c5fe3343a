package introspection

import (
	"fmt"
	"strings"
)

// Builtin scalars are part of the SDL prelude and never re-declared.
var builtinScalars = map[string]bool{
	"String":  true,
	"Int":     true,
	"Float":   true,
	"Boolean": true,
	"ID":      true,
}

// SDL reconstructs a schema-definition-language document from the
// introspection result. Introspection cannot expose executable details
// (resolvers, applied directives), but it carries everything the tool
// compiler needs: type shapes, arguments, defaults, descriptions, and
// deprecations.
func (s *Schema) SDL() string {
	var b strings.Builder

	b.WriteString("schema {\n")
	if s.QueryType != nil {
		fmt.Fprintf(&b, "  query: %s\n", s.QueryType.Name)
	}
	if s.MutationType != nil {
		fmt.Fprintf(&b, "  mutation: %s\n", s.MutationType.Name)
	}
	if s.SubscriptionType != nil {
		fmt.Fprintf(&b, "  subscription: %s\n", s.SubscriptionType.Name)
	}
	b.WriteString("}\n")

	for _, t := range s.Types {
		if strings.HasPrefix(t.Name, "__") || builtinScalars[t.Name] {
			continue
		}
		b.WriteString("\n")
		writeType(&b, t)
	}

	return b.String()
}

func writeType(b *strings.Builder, t FullType) {
	writeDescription(b, t.Description, "")

	switch t.Kind {
	case "SCALAR":
		fmt.Fprintf(b, "scalar %s\n", t.Name)

	case "ENUM":
		fmt.Fprintf(b, "enum %s {\n", t.Name)
		for _, v := range t.EnumValues {
			writeDescription(b, v.Description, "  ")
			fmt.Fprintf(b, "  %s%s\n", v.Name, deprecation(v.IsDeprecated, v.DeprecationReason))
		}
		b.WriteString("}\n")

	case "UNION":
		names := make([]string, 0, len(t.PossibleTypes))
		for _, p := range t.PossibleTypes {
			names = append(names, p.BaseName())
		}
		fmt.Fprintf(b, "union %s = %s\n", t.Name, strings.Join(names, " | "))

	case "INPUT_OBJECT":
		fmt.Fprintf(b, "input %s {\n", t.Name)
		for _, f := range t.InputFields {
			writeDescription(b, f.Description, "  ")
			fmt.Fprintf(b, "  %s: %s%s\n", f.Name, f.Type.String(), defaultClause(f.DefaultValue))
		}
		b.WriteString("}\n")

	case "OBJECT", "INTERFACE":
		keyword := "type"
		if t.Kind == "INTERFACE" {
			keyword = "interface"
		}
		implements := ""
		if len(t.Interfaces) > 0 {
			names := make([]string, 0, len(t.Interfaces))
			for _, i := range t.Interfaces {
				names = append(names, i.BaseName())
			}
			implements = " implements " + strings.Join(names, " & ")
		}
		fmt.Fprintf(b, "%s %s%s {\n", keyword, t.Name, implements)
		for _, f := range t.Fields {
			writeField(b, f)
		}
		b.WriteString("}\n")
	}
}

func writeField(b *strings.Builder, f Field) {
	writeDescription(b, f.Description, "  ")

	args := ""
	if len(f.Args) > 0 {
		parts := make([]string, 0, len(f.Args))
		for _, a := range f.Args {
			parts = append(parts, fmt.Sprintf("%s: %s%s", a.Name, a.Type.String(), defaultClause(a.DefaultValue)))
		}
		args = "(" + strings.Join(parts, ", ") + ")"
	}

	fmt.Fprintf(b, "  %s%s: %s%s\n", f.Name, args, f.Type.String(), deprecation(f.IsDeprecated, f.DeprecationReason))
}

// defaultClause renders an introspected default, which is already a
// GraphQL literal string.
func defaultClause(value *string) string {
	if value == nil || *value == "" {
		return ""
	}
	return " = " + *value
}

func deprecation(deprecated bool, reason string) string {
	if !deprecated {
		return ""
	}
	if reason == "" {
		return " @deprecated"
	}
	return fmt.Sprintf(" @deprecated(reason: %q)", reason)
}

func writeDescription(b *strings.Builder, desc, indent string) {
	if desc == "" {
		return
	}
	desc = strings.ReplaceAll(desc, `"""`, `'''`)
	fmt.Fprintf(b, "%s\"\"\"%s\"\"\"\n", indent, desc)
}
