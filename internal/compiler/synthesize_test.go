package compiler

import (
	"strings"
	"testing"
)

func toolNames(tools []*Tool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

func findTool(t *testing.T, tools []*Tool, name string) *Tool {
	t.Helper()
	for _, tool := range tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("no tool %q in %v", name, toolNames(tools))
	return nil
}

func TestSynthesizeTopLevelAndNested(t *testing.T) {
	schema := loadSchema(t, blogSchema)

	tools, err := Synthesize(schema, Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	user := findTool(t, tools, "user")
	if user.Kind != OperationQuery || len(user.OriginPath) != 1 {
		t.Errorf("user tool = kind %s, path %d", user.Kind, len(user.OriginPath))
	}
	if user.Param("id") == nil || !user.Param("id").Required {
		t.Errorf("user tool should require id, params %+v", user.Params)
	}

	// Nested field with arguments reached through the user tool's return
	// type becomes its own tool with the ancestor's argument prefixed.
	userPosts := findTool(t, tools, "user_posts")
	if len(userPosts.OriginPath) != 2 {
		t.Fatalf("user_posts path length = %d, want 2", len(userPosts.OriginPath))
	}
	if userPosts.Param("user_id") == nil {
		t.Errorf("user_posts missing prefixed ancestor param, params %v", toolParamNames(userPosts))
	}
	if userPosts.Param("filter") == nil || userPosts.Param("limit") == nil {
		t.Errorf("user_posts missing own params, params %v", toolParamNames(userPosts))
	}
}

func toolParamNames(tool *Tool) []string {
	names := make([]string, 0, len(tool.Params))
	for _, p := range tool.Params {
		names = append(names, p.Name)
	}
	return names
}

func TestSynthesizeListAncestorOutput(t *testing.T) {
	schema := loadSchema(t, `
type Post {
  id: ID!
  title: String!
}
type User {
  id: ID!
  posts(limit: Int): [Post!]!
}
type Query {
  users: [User!]!
}
`)

	tools, err := Synthesize(schema, Options{SelectionDepth: 1})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	// The ancestor returns a list, so the response carries one post list
	// per user: the declared output gains a matching array dimension.
	usersPosts := findTool(t, tools, "users_posts")
	rt := usersPosts.ReturnType
	if rt.Elem == nil || rt.Elem.Elem == nil || rt.Elem.Elem.NamedType != "Post" {
		t.Fatalf("return type = %s, want list of lists of Post", rt.String())
	}

	out := usersPosts.OutputSchema
	if out.Type != "array" {
		t.Fatalf("output schema type = %q, want array", out.Type)
	}
	if out.Items == nil || out.Items.Type != "array" {
		t.Fatalf("output items = %+v, want inner array", out.Items)
	}
	if out.Items.Items == nil || out.Items.Items.Type != "object" {
		t.Fatalf("inner items = %+v, want Post object", out.Items.Items)
	}
}

func TestSynthesizeObjectAncestorOutputUnchanged(t *testing.T) {
	schema := loadSchema(t, blogSchema)

	tools, err := Synthesize(schema, Options{SelectionDepth: 1})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	// A single-object ancestor adds no dimension: user_posts still
	// returns the leaf field's own list type.
	userPosts := findTool(t, tools, "user_posts")
	rt := userPosts.ReturnType
	if rt.Elem == nil || rt.Elem.Elem != nil || rt.Elem.NamedType != "Post" {
		t.Fatalf("return type = %s, want list of Post", rt.String())
	}
	if userPosts.OutputSchema.Type != "array" || userPosts.OutputSchema.Items.Type != "object" {
		t.Fatalf("output schema = %+v, want array of Post objects", userPosts.OutputSchema)
	}
}

func TestSynthesizeMutationGating(t *testing.T) {
	schema := loadSchema(t, blogSchema)

	readOnly, err := Synthesize(schema, Options{AllowMutations: false})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	for _, name := range toolNames(readOnly) {
		if name == "delete_item" || name == "create_post" {
			t.Errorf("mutation tool %q registered with mutations disallowed", name)
		}
	}

	readWrite, err := Synthesize(schema, Options{AllowMutations: true})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	del := findTool(t, readWrite, "delete_item")
	if del.Kind != OperationMutation {
		t.Errorf("delete_item kind = %s, want mutation", del.Kind)
	}
}

func TestSynthesizeQueryOverMutationPrecedence(t *testing.T) {
	schema := loadSchema(t, `
type Query {
  syncState(id: ID!): String
}
type Mutation {
  syncState(id: ID!): String
}
`)

	tools, err := Synthesize(schema, Options{AllowMutations: true})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	var matches []*Tool
	for _, tool := range tools {
		if tool.Name == "sync_state" {
			matches = append(matches, tool)
		}
	}
	if len(matches) != 1 {
		t.Fatalf("got %d sync_state tools, want 1", len(matches))
	}
	if matches[0].Kind != OperationQuery {
		t.Errorf("colliding tool resolved to %s, want query", matches[0].Kind)
	}
}

func TestSynthesizeSelectionAttached(t *testing.T) {
	schema := loadSchema(t, blogSchema)

	tools, err := Synthesize(schema, Options{SelectionDepth: 1})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	user := findTool(t, tools, "user")
	if !strings.HasPrefix(user.Selection, "{ ") {
		t.Errorf("user selection = %q, want a selection set", user.Selection)
	}

	// Leaf-returning tools carry no selection.
	serverTime := findTool(t, tools, "server_time")
	if serverTime.Selection != "" {
		t.Errorf("server_time selection = %q, want empty", serverTime.Selection)
	}
}

func TestSynthesizeHiddenDirective(t *testing.T) {
	schema := loadSchema(t, `
directive @hidden on ARGUMENT_DEFINITION
type Query {
  items(tenant: String! = "public" @hidden, limit: Int): [String!]!
}
`)

	tools, err := Synthesize(schema, Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	items := findTool(t, tools, "items")
	if items.Param("tenant") != nil {
		t.Error("hidden argument exposed as parameter")
	}
	if len(items.Hidden) != 1 || items.Hidden[0].Argument != "tenant" {
		t.Errorf("hidden defaults = %+v, want tenant", items.Hidden)
	}
}

func TestSynthesizeDeprecatedDescription(t *testing.T) {
	schema := loadSchema(t, `
type Query {
  oldField(id: ID!): String @deprecated(reason: "use newField")
  newField(id: ID!): String
}
`)

	tools, err := Synthesize(schema, Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	old := findTool(t, tools, "old_field")
	if !strings.Contains(old.Description, "use newField") {
		t.Errorf("description = %q, want deprecation reason", old.Description)
	}
}
