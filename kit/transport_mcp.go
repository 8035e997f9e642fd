package kit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPDecodeResult holds the decoded request and an optional context enrichment.
type MCPDecodeResult struct {
	Request   any
	EnrichCtx func(context.Context) context.Context
}

// Renderer turns an endpoint response into the human-readable text block
// returned to the agent. A nil Renderer falls back to JSON marshalling.
type Renderer func(resp any) string

// RegisterMCPTool registers an Endpoint as an MCP tool on the given server.
// The decode function extracts the typed request from MCP arguments; the
// render function formats the response for the agent.
//
// All failures — bad arguments, endpoint errors, render fallback marshal
// errors — come back as TextContent prefixed with ErrorPrefix. The tool
// boundary never raises.
func RegisterMCPTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode func(*mcp.CallToolRequest) (*MCPDecodeResult, error), render Renderer) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		decoded, err := decode(req)
		if err != nil {
			return textResult(fmt.Sprintf("%sinvalid arguments: %v", ErrorPrefix, err)), nil
		}
		if decoded.EnrichCtx != nil {
			ctx = decoded.EnrichCtx(ctx)
		}

		resp, err := endpoint(ctx, decoded.Request)
		if err != nil {
			return textResult(ErrorPrefix + err.Error()), nil
		}

		if render != nil {
			return textResult(render(resp)), nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			return textResult(fmt.Sprintf("%smarshal: %v", ErrorPrefix, err)), nil
		}
		return textResult(string(data)), nil
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
