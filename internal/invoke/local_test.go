package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"graphmcp/internal/client"
	"graphmcp/internal/compiler"
	"graphmcp/internal/ctxkeys"
)

type fakeExecutor struct {
	lastReq client.Request
	resp    *client.Response
	err     error
}

func (f *fakeExecutor) Execute(_ context.Context, req client.Request) (*client.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func TestLocalInvokeUnwrapsPath(t *testing.T) {
	schema := loadSchema(t, blogSchema)
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})

	exec := &fakeExecutor{resp: &client.Response{Data: map[string]any{
		"user": map[string]any{
			"posts": []any{
				map[string]any{"id": "p1", "title": "first", "tags": []any{"go"}},
			},
		},
	}}}
	inv := &LocalInvoker{Schema: schema, Executor: exec}

	got, err := inv.Invoke(context.Background(), findTool(t, tools, "user_posts"), json.RawMessage(`{"user_id": "42"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	posts, ok := got.([]any)
	if !ok || len(posts) != 1 {
		t.Fatalf("unwrapped = %#v, want one post", got)
	}
	post := posts[0].(map[string]any)
	if post["title"] != "first" {
		t.Fatalf("post = %v", post)
	}

	if exec.lastReq.OperationName != "UserPosts" {
		t.Errorf("operation name = %q", exec.lastReq.OperationName)
	}
	if exec.lastReq.Variables["user_id"] != "42" {
		t.Errorf("variables = %v", exec.lastReq.Variables)
	}
}

func TestLocalInvokeListAncestorFansOut(t *testing.T) {
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
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})
	tool := findTool(t, tools, "users_posts")

	exec := &fakeExecutor{resp: &client.Response{Data: map[string]any{
		"users": []any{
			map[string]any{"posts": []any{map[string]any{"id": "p1", "title": "first"}}},
			map[string]any{"posts": []any{map[string]any{"id": "p2", "title": "second"}}},
		},
	}}}
	inv := &LocalInvoker{Schema: schema, Executor: exec}

	got, err := inv.Invoke(context.Background(), tool, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	// One post list per user, matching the extra array dimension the
	// tool's output schema declares for the list-typed ancestor.
	perUser, ok := got.([]any)
	if !ok || len(perUser) != 2 {
		t.Fatalf("unwrapped = %#v, want one entry per user", got)
	}
	first, ok := perUser[0].([]any)
	if !ok || len(first) != 1 {
		t.Fatalf("first entry = %#v, want that user's posts", perUser[0])
	}
	if first[0].(map[string]any)["id"] != "p1" {
		t.Fatalf("first post = %v", first[0])
	}

	out := tool.OutputSchema
	if out.Type != "array" || out.Items == nil || out.Items.Type != "array" {
		t.Fatalf("output schema = %+v, want array of arrays", out)
	}
}

func TestLocalInvokeGraphQLErrorsVerbatim(t *testing.T) {
	schema := loadSchema(t, blogSchema)
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})

	exec := &fakeExecutor{resp: &client.Response{Errors: client.ErrorList{
		{Message: "user not found: 42"},
		{Message: "resolver timeout"},
	}}}
	inv := &LocalInvoker{Schema: schema, Executor: exec}

	_, err := inv.Invoke(context.Background(), findTool(t, tools, "user"), json.RawMessage(`{"id": "42"}`))
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("got %v, want ExecutionError", err)
	}
	if execErr.Remote {
		t.Error("local failure marked remote")
	}
	if len(execErr.Messages) != 2 || execErr.Messages[0] != "user not found: 42" {
		t.Fatalf("messages = %v, want verbatim", execErr.Messages)
	}
}

func TestLocalInvokeValidationBeforeExecution(t *testing.T) {
	schema := loadSchema(t, blogSchema)
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})

	exec := &fakeExecutor{err: errors.New("must not be reached")}
	inv := &LocalInvoker{Schema: schema, Executor: exec}

	_, err := inv.Invoke(context.Background(), findTool(t, tools, "user"), json.RawMessage(`{}`))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if exec.lastReq.Query != "" {
		t.Error("executor reached despite invalid arguments")
	}
}

func TestLocalInvokeForwardsBearer(t *testing.T) {
	schema := loadSchema(t, blogSchema)
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})

	exec := &fakeExecutor{resp: &client.Response{Data: map[string]any{"user": nil}}}
	inv := &LocalInvoker{Schema: schema, Executor: exec}

	ctx := ctxkeys.WithBearerToken(context.Background(), "caller-token")
	if _, err := inv.Invoke(ctx, findTool(t, tools, "user"), json.RawMessage(`{"id": "1"}`)); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if exec.lastReq.BearerToken != "caller-token" {
		t.Errorf("bearer = %q, want caller-token", exec.lastReq.BearerToken)
	}
}

func TestCoerceListsNullToEmpty(t *testing.T) {
	schema := loadSchema(t, blogSchema)

	postType := schema.Types["User"].Fields.ForName("posts").Type

	if got := coerceLists(schema, postType, nil); got == nil {
		t.Fatal("list-typed null should coerce to empty list")
	} else if items, ok := got.([]any); !ok || len(items) != 0 {
		t.Fatalf("coerced = %#v, want empty list", got)
	}

	// Nested null lists inside objects coerce too.
	value := []any{map[string]any{"id": "p1", "tags": nil}}
	got := coerceLists(schema, postType, value).([]any)
	post := got[0].(map[string]any)
	if tags, ok := post["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("tags = %#v, want empty list", post["tags"])
	}

	// Non-list nulls stay null.
	userType := schema.Types["Query"].Fields.ForName("user").Type
	if got := coerceLists(schema, userType, nil); got != nil {
		t.Fatalf("nullable object coerced to %#v, want nil", got)
	}
}
