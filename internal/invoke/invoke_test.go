package invoke

import (
	"testing"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"graphmcp/internal/compiler"
)

const blogSchema = `
enum Priority {
  LOW
  MEDIUM
  HIGH
}

type User {
  id: ID!
  name: String!
  posts(limit: Int = 10, priority: Priority): [Post!]!
}

type Post {
  id: ID!
  title: String!
  tags: [String!]
}

type Query {
  user(id: ID!): User
  searchPosts(title: String, priorities: [Priority!], limit: Int): [Post!]!
}

type Mutation {
  deleteItem(id: ID!): Boolean!
}
`

func loadSchema(t *testing.T, sdl string) *ast.Schema {
	t.Helper()
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "test.graphql", Input: sdl})
	if err != nil {
		t.Fatalf("failed to load test schema: %v", err)
	}
	return schema
}

func synthesize(t *testing.T, schema *ast.Schema, opts compiler.Options) []*compiler.Tool {
	t.Helper()
	tools, err := compiler.Synthesize(schema, opts)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	return tools
}

func findTool(t *testing.T, tools []*compiler.Tool, name string) *compiler.Tool {
	t.Helper()
	for _, tool := range tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("no tool %q", name)
	return nil
}
