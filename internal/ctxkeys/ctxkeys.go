// Package ctxkeys defines typed context keys to avoid SA1029 lint warnings
// and prevent key collisions across packages.
package ctxkeys

import "context"

// Key is a typed context key to prevent collisions.
type Key string

const (
	KeyBearerToken Key = "bearer_token"
	KeyRequestID   Key = "request_id"
	KeyClientIP    Key = "client_ip"
)

// WithBearerToken stores a caller-supplied bearer token in the context.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, KeyBearerToken, token)
}

// GetBearerToken extracts the caller's bearer token from context.
func GetBearerToken(ctx context.Context) string {
	if v, ok := ctx.Value(KeyBearerToken).(string); ok {
		return v
	}
	return ""
}

// WithRequestID stores a request correlation ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, KeyRequestID, id)
}

// GetRequestID extracts the request correlation ID from context.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(KeyRequestID).(string); ok {
		return v
	}
	return ""
}

// GetClientIP extracts the client IP from context.
func GetClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(KeyClientIP).(string); ok {
		return v
	}
	return ""
}
