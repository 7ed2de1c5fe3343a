package invoke

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"graphmcp/internal/client"
	"graphmcp/internal/compiler"
	"graphmcp/internal/ctxkeys"
)

type capturedRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Authorization string         `json:"-"`
}

func graphqlStub(t *testing.T, respond func(req capturedRequest) any) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var requests []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		req.Authorization = r.Header.Get("Authorization")
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(respond(req)); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestRemoteInvokePrunesAndUnwraps(t *testing.T) {
	schema := loadSchema(t, blogSchema)
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})

	srv, requests := graphqlStub(t, func(capturedRequest) any {
		return map[string]any{"data": map[string]any{
			"searchPosts": []any{
				map[string]any{"id": "p1", "title": "hit", "tags": nil},
			},
		}}
	})

	inv := &RemoteInvoker{
		Client: client.New(client.Config{URL: srv.URL}),
		Schema: schema,
	}
	inv.Prepare(tools)

	got, err := inv.Invoke(context.Background(), findTool(t, tools, "search_posts"), json.RawMessage(`{"title": "hit"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	posts := got.([]any)
	if len(posts) != 1 {
		t.Fatalf("got %d posts", len(posts))
	}
	// Null list fields in the response coerce to empty lists.
	post := posts[0].(map[string]any)
	if tags, ok := post["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("tags = %#v, want empty list", post["tags"])
	}

	sent := (*requests)[0]
	if sent.OperationName != "SearchPosts" {
		t.Errorf("operation name = %q", sent.OperationName)
	}
	for name := range sent.Variables {
		if name != "title" {
			t.Errorf("unsupplied variable %q sent upstream", name)
		}
	}
	if strings.Contains(sent.Query, "$priorities") || strings.Contains(sent.Query, "$limit") {
		t.Errorf("unsupplied variables survived pruning: %q", sent.Query)
	}
}

func TestRemoteInvokeErrorsVerbatim(t *testing.T) {
	schema := loadSchema(t, blogSchema)
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})

	srv, _ := graphqlStub(t, func(capturedRequest) any {
		return map[string]any{"errors": []map[string]any{
			{"message": "rate limited"},
		}}
	})

	inv := &RemoteInvoker{
		Client: client.New(client.Config{URL: srv.URL}),
		Schema: schema,
	}
	inv.Prepare(tools)

	_, err := inv.Invoke(context.Background(), findTool(t, tools, "user"), json.RawMessage(`{"id": "1"}`))
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("got %v, want ExecutionError", err)
	}
	if !execErr.Remote {
		t.Error("remote failure not marked remote")
	}
	if len(execErr.Messages) != 1 || execErr.Messages[0] != "rate limited" {
		t.Fatalf("messages = %v, want verbatim", execErr.Messages)
	}
}

func TestRemoteInvokeForwardAuth(t *testing.T) {
	schema := loadSchema(t, blogSchema)
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})

	srv, requests := graphqlStub(t, func(capturedRequest) any {
		return map[string]any{"data": map[string]any{"user": nil}}
	})

	inv := &RemoteInvoker{
		Client:      client.New(client.Config{URL: srv.URL, BearerToken: "configured"}),
		Schema:      schema,
		ForwardAuth: true,
	}
	inv.Prepare(tools)

	ctx := ctxkeys.WithBearerToken(context.Background(), "caller-token")
	if _, err := inv.Invoke(ctx, findTool(t, tools, "user"), json.RawMessage(`{"id": "1"}`)); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if got := (*requests)[0].Authorization; got != "Bearer caller-token" {
		t.Errorf("authorization = %q, want forwarded caller token", got)
	}
}

func TestRemoteInvokeWithoutPrepare(t *testing.T) {
	schema := loadSchema(t, blogSchema)
	tools := synthesize(t, schema, compiler.Options{SelectionDepth: 1})

	srv, _ := graphqlStub(t, func(capturedRequest) any {
		return map[string]any{"data": map[string]any{"user": map[string]any{"id": "1", "name": "n"}}}
	})

	// Invoke without Prepare falls back to composing on the fly.
	inv := &RemoteInvoker{
		Client: client.New(client.Config{URL: srv.URL}),
		Schema: schema,
	}

	got, err := inv.Invoke(context.Background(), findTool(t, tools, "user"), json.RawMessage(`{"id": "1"}`))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if user, ok := got.(map[string]any); !ok || user["name"] != "n" {
		t.Fatalf("got %#v", got)
	}
}
