// Package mcperrors shapes internal failures into JSON-RPC protocol errors.
package mcperrors

import (
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// InvalidParams reports malformed tool arguments as a JSON-RPC error.
func InvalidParams(message string) error {
	return &jsonrpc.Error{
		Code:    jsonrpc.CodeInvalidParams,
		Message: message,
	}
}

// Internal reports an unexpected server-side failure.
func Internal(message string) error {
	return &jsonrpc.Error{
		Code:    jsonrpc.CodeInternalError,
		Message: message,
	}
}
