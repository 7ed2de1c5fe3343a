package compiler

import (
	"testing"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func loadSchema(t *testing.T, sdl string) *ast.Schema {
	t.Helper()
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "test.graphql", Input: sdl})
	if err != nil {
		t.Fatalf("failed to load test schema: %v", err)
	}
	return schema
}

const blogSchema = `
directive @hidden on ARGUMENT_DEFINITION

enum Priority {
  LOW
  MEDIUM
  HIGH
}

scalar DateTime

input PostFilter {
  titleContains: String
  priority: Priority
  after: DateTime
}

type User {
  id: ID!
  name: String!
  email: String
  posts(filter: PostFilter, limit: Int = 10): [Post!]!
}

type Post {
  id: ID!
  title: String!
  tags: [String!]
  author: User!
  priority: Priority
}

type Query {
  user(id: ID!): User
  searchPosts(filter: PostFilter!, priority: Priority): [Post!]!
  serverTime: DateTime!
}

type Mutation {
  deleteItem(id: ID!): Boolean!
  createPost(title: String!, authorId: ID!): Post!
}
`
