package introspection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"graphmcp/internal/client"
	"graphmcp/internal/logging"
)

// introspectionQuery is the full GraphQL introspection query.
const introspectionQuery = `
query IntrospectSchema {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types {
      ...FullType
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args {
      ...InputValue
    }
    type {
      ...TypeRef
    }
    isDeprecated
    deprecationReason
  }
  inputFields {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  description
  type {
    ...TypeRef
  }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}
`

// Fetch runs the introspection query against the remote endpoint. A
// failure here is fatal for the server instance; callers do not retry.
func Fetch(ctx context.Context, c *client.Client) (*Schema, error) {
	resp, err := c.Do(ctx, client.Request{Query: introspectionQuery, OperationName: "IntrospectSchema"})
	if err != nil {
		return nil, fmt.Errorf("schema introspection failed: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("schema introspection rejected by %s: %s", c.URL(), resp.Errors.Error())
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("no data in introspection response from %s (introspection disabled?)", c.URL())
	}

	// Re-decode the generic response body into the typed result.
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode introspection data: %w", err)
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode introspection data: %w", err)
	}
	if result.Schema.QueryType == nil && result.Schema.MutationType == nil {
		return nil, fmt.Errorf("introspection response from %s has no root types", c.URL())
	}

	return &result.Schema, nil
}

// Load fetches the remote schema and parses its SDL reconstruction into
// the normalized representation the compiler consumes.
func Load(ctx context.Context, c *client.Client, logger logging.Logger) (*ast.Schema, error) {
	schema, err := Fetch(ctx, c)
	if err != nil {
		return nil, err
	}

	sdl := schema.SDL()
	parsed, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: "remote-schema.graphql", Input: sdl})
	if gqlErr != nil {
		return nil, fmt.Errorf("failed to load introspected schema: %w", gqlErr)
	}

	if logger != nil {
		logger.WithField("types", len(schema.Types)).Info("Remote schema introspected")
	}

	return parsed, nil
}
