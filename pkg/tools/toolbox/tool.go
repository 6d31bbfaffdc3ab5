package toolbox

import (
	"context"
	"encoding/json"
)

// Handler runs a tool against its JSON input and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool describes one controller operation.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
	// Mutates marks tools that change controller state (relays, mode).
	Mutates bool
}

// Result is the outcome of a Call. IsError marks failures reported to the
// caller as text rather than as a protocol error.
type Result struct {
	Content string
	IsError bool
}
