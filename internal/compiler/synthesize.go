package compiler

import (
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/vektah/gqlparser/v2/ast"
)

// Options controls tool synthesis.
type Options struct {
	// AllowMutations gates mutation-derived tools. Disallowed mutations
	// are never registered, top-level or nested.
	AllowMutations bool

	// SelectionDepth is the selection fragment budget. Zero selects
	// DefaultRemoteDepth.
	SelectionDepth int

	// HiddenDirective is the directive name scanned for the
	// hidden-argument marker. Defaults to "hidden".
	HiddenDirective string

	// Hidden adds explicit side-table entries on top of the directive
	// scan, for schemas whose metadata cannot carry directives.
	Hidden HiddenArgs

	// Scalars extends the custom-scalar mapping table.
	Scalars map[string]*jsonschema.Schema
}

// Synthesize walks every root field and every reachable nested field with
// arguments and compiles one tool per unit. Registration order resolves
// name collisions: mutations first, then queries (a query overwrites a
// same-named mutation), then nested tools (insertion order wins).
func Synthesize(schema *ast.Schema, opts Options) ([]*Tool, error) {
	depth := opts.SelectionDepth
	if depth <= 0 {
		depth = DefaultRemoteDepth
	}
	directive := opts.HiddenDirective
	if directive == "" {
		directive = "hidden"
	}

	hidden := CollectHiddenArgs(schema, directive)
	hidden.Merge(opts.Hidden)

	mapper := NewMapper(schema, opts.Scalars)
	s := &synthesizer{
		schema:    schema,
		depth:     depth,
		arguments: &ArgumentCompiler{Mapper: mapper, Hidden: hidden},
		selection: &SelectionBuilder{Schema: schema, Mapper: mapper},
		index:     map[string]int{},
	}

	if schema.Mutation != nil && opts.AllowMutations {
		for _, field := range rootFields(schema.Mutation) {
			if err := s.compile([]FieldRef{{Parent: schema.Mutation, Field: field}}, OperationMutation); err != nil {
				return nil, err
			}
		}
	}
	if schema.Query != nil {
		for _, field := range rootFields(schema.Query) {
			if err := s.compile([]FieldRef{{Parent: schema.Query, Field: field}}, OperationQuery); err != nil {
				return nil, err
			}
		}
	}

	// Nested tools: fields with arguments sitting at chain-depth >= 2
	// from a root, reached through output object types.
	if schema.Mutation != nil && opts.AllowMutations {
		if err := s.walkRoot(schema.Mutation, OperationMutation); err != nil {
			return nil, err
		}
	}
	if schema.Query != nil {
		if err := s.walkRoot(schema.Query, OperationQuery); err != nil {
			return nil, err
		}
	}

	return s.tools, nil
}

type synthesizer struct {
	schema    *ast.Schema
	depth     int
	arguments *ArgumentCompiler
	selection *SelectionBuilder

	tools []*Tool
	index map[string]int
}

func (s *synthesizer) compile(path []FieldRef, kind OperationKind) error {
	leaf := path[len(path)-1]

	params, bindings, hiddenDefaults, err := s.arguments.Compile(path)
	if err != nil {
		return err
	}

	frag := s.selection.Build(leaf.Field.Type, s.depth)

	// A list-typed ancestor fans the leaf payload out per element, so the
	// declared output gains one array dimension per list wrapper on the
	// path above the leaf.
	returnType, outputSchema := leaf.Field.Type, frag.Schema
	for i := len(path) - 2; i >= 0; i-- {
		returnType, outputSchema = liftThroughLists(path[i].Field.Type, returnType, outputSchema)
	}

	tool := &Tool{
		Name:         ResolveName(path),
		Description:  describeField(leaf.Field),
		Kind:         kind,
		OriginPath:   path,
		Params:       params,
		Bindings:     bindings,
		Hidden:       hiddenDefaults,
		Selection:    frag.Text,
		ReturnType:   returnType,
		InputSchema:  inputSchema(params),
		OutputSchema: outputSchema,
	}

	s.register(tool)
	return nil
}

// register inserts a tool, replacing any earlier tool with the same name
// while keeping the earlier tool's position.
func (s *synthesizer) register(tool *Tool) {
	if i, ok := s.index[tool.Name]; ok {
		s.tools[i] = tool
		return
	}
	s.index[tool.Name] = len(s.tools)
	s.tools = append(s.tools, tool)
}

func (s *synthesizer) walkRoot(root *ast.Definition, kind OperationKind) error {
	for _, field := range rootFields(root) {
		def := s.objectDef(field.Type)
		if def == nil {
			continue
		}
		path := []FieldRef{{Parent: root, Field: field}}
		visited := map[string]bool{def.Name: true}
		if err := s.walkNested(def, path, kind, visited); err != nil {
			return err
		}
	}
	return nil
}

func (s *synthesizer) walkNested(def *ast.Definition, path []FieldRef, kind OperationKind, visited map[string]bool) error {
	for _, field := range def.Fields {
		if strings.HasPrefix(field.Name, "__") {
			continue
		}

		next := append(append([]FieldRef{}, path...), FieldRef{Parent: def, Field: field})

		if len(field.Arguments) > 0 {
			if err := s.compile(next, kind); err != nil {
				return err
			}
		}

		child := s.objectDef(field.Type)
		if child == nil || visited[child.Name] {
			continue
		}
		visited[child.Name] = true
		err := s.walkNested(child, next, kind, visited)
		delete(visited, child.Name)
		if err != nil {
			return err
		}
	}
	return nil
}

// liftThroughLists applies an ancestor field's list wrappers to the
// tool's declared output type and schema, innermost wrapper first.
func liftThroughLists(ancestor *ast.Type, returnType *ast.Type, schema *jsonschema.Schema) (*ast.Type, *jsonschema.Schema) {
	if ancestor.Elem == nil {
		return returnType, schema
	}
	returnType, schema = liftThroughLists(ancestor.Elem, returnType, schema)
	wrapped := &jsonschema.Schema{Type: "array", Items: schema}
	if !ancestor.NonNull {
		wrapped = nullable(wrapped)
	}
	return &ast.Type{Elem: returnType, NonNull: ancestor.NonNull}, wrapped
}

// objectDef resolves the base definition of a type when it is an object
// or interface, the only kinds nested traversal descends into.
func (s *synthesizer) objectDef(t *ast.Type) *ast.Definition {
	def := s.schema.Types[baseTypeName(t)]
	if def == nil {
		return nil
	}
	if def.Kind == ast.Object || def.Kind == ast.Interface {
		return def
	}
	return nil
}

func rootFields(def *ast.Definition) []*ast.FieldDefinition {
	fields := make([]*ast.FieldDefinition, 0, len(def.Fields))
	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func describeField(field *ast.FieldDefinition) string {
	desc := field.Description
	if d := field.Directives.ForName("deprecated"); d != nil {
		reason := "deprecated"
		if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
			reason = "Deprecated: " + arg.Value.Raw
		}
		if desc != "" {
			desc += " "
		}
		desc += reason
	}
	return desc
}
