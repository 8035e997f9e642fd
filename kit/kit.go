// Package kit provides the glue between plain Go endpoints and the MCP
// tool surface: argument decoding, text rendering, and failure-marker
// error conversion.
package kit

import "context"

// Endpoint is a transport-agnostic operation: it takes a decoded request
// and returns a response object or an error.
type Endpoint func(ctx context.Context, req any) (any, error)

// ErrorPrefix marks tool failures in the text returned to the agent.
// Errors are always rendered as text content, never surfaced as MCP
// protocol errors, so the calling agent can read and react to them.
const ErrorPrefix = "❌ Error: "
