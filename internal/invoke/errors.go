// Package invoke executes compiled tools: it validates caller arguments,
// composes GraphQL operations from the tool's origin path, and runs them
// against a local executor or a remote endpoint.
package invoke

import (
	"fmt"
	"strings"
)

// ValidationError reports caller-supplied arguments that fail the tool's
// parameter schema. The schema itself is unaffected and the call is not
// retried.
type ValidationError struct {
	Tool    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Message)
}

// ExecutionError carries GraphQL or transport failures with the
// underlying message text preserved verbatim.
type ExecutionError struct {
	Tool     string
	Remote   bool
	Messages []string
}

func (e *ExecutionError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func missingParams(tool string, missing []string) error {
	return &ValidationError{
		Tool:    tool,
		Message: "missing required parameters: " + strings.Join(missing, ", "),
	}
}
