package brand

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/djmoore711/brandfetch-mcp/kit"
)

// RegisterMCP registers brand tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerBrandDetailsTool(srv)
	s.registerSearchBrandsTool(srv)
	s.registerBrandLogoTool(srv)
	s.registerBrandColorsTool(srv)
	s.registerLogoURLTool(srv)
	s.registerUsageStatusTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	sch := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sch["required"] = required
	}
	return sch
}

// --- get_brand_details ---

type brandDetailsRequest struct {
	Domain string `json:"domain"`
}

func (s *Service) registerBrandDetailsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_brand_details",
		Description: "Retrieve comprehensive brand information including logos, colors, fonts, and social links for a given domain",
		InputSchema: inputSchema(map[string]any{
			"domain": map[string]any{"type": "string", "description": "The company domain (e.g., 'github.com')"},
		}, []string{"domain"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*brandDetailsRequest)
		return s.client.GetBrand(ctx, r.Domain)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r brandDetailsRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode, func(resp any) string {
		return FormatBrandDetails(resp.(*BrandRecord))
	})
}

// --- search_brands ---

type searchBrandsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func (s *Service) registerSearchBrandsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "search_brands",
		Description: "Search for brands by name or keyword. Returns a list of matching brands with basic information.",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search term or brand name"},
			"limit": map[string]any{"type": "integer", "description": "Maximum number of results to return", "default": 10, "minimum": 1, "maximum": 50},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*searchBrandsRequest)
		return s.client.SearchBrands(ctx, r.Query, r.Limit)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r searchBrandsRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode, func(resp any) string {
		return FormatSearchResults(resp.([]SearchHit))
	})
}

// --- get_brand_logo ---

type brandLogoRequest struct {
	Domain string `json:"domain"`
	Format string `json:"format,omitempty"`
	Theme  string `json:"theme,omitempty"`
	Type   string `json:"type,omitempty"`
}

func (s *Service) registerBrandLogoTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_brand_logo",
		Description: "Retrieve brand logo in specified format. Returns logo URL and metadata.",
		InputSchema: inputSchema(map[string]any{
			"domain": map[string]any{"type": "string", "description": "The company domain (e.g., 'stripe.com')"},
			"format": map[string]any{"type": "string", "enum": []any{"svg", "png"}, "description": "Desired logo format", "default": "svg"},
			"theme":  map[string]any{"type": "string", "enum": []any{"light", "dark"}, "description": "Logo theme/color scheme", "default": "light"},
			"type":   map[string]any{"type": "string", "enum": []any{"logo", "icon", "symbol"}, "description": "Type of logo asset", "default": "logo"},
		}, []string{"domain"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*brandLogoRequest)
		return s.client.GetBrandLogo(ctx, r.Domain, r.Format, r.Theme, r.Type)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		r := brandLogoRequest{Format: "svg", Theme: "light", Type: "logo"}
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode, func(resp any) string {
		return FormatLogo(resp.(*LogoSelection))
	})
}

// --- get_brand_colors ---

type brandColorsRequest struct {
	Domain string `json:"domain"`
}

func (s *Service) registerBrandColorsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_brand_colors",
		Description: "Extract the brand color palette with hex codes and color types (primary, secondary, accent, etc.)",
		InputSchema: inputSchema(map[string]any{
			"domain": map[string]any{"type": "string", "description": "The company domain (e.g., 'netflix.com')"},
		}, []string{"domain"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*brandColorsRequest)
		return s.client.GetBrandColors(ctx, r.Domain)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r brandColorsRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode, func(resp any) string {
		return FormatColors(resp.([]ColorEntry))
	})
}

// --- get_logo_url ---

type logoURLRequest struct {
	Domain string `json:"domain,omitempty"`
	Name   string `json:"name,omitempty"`
}

func (s *Service) registerLogoURLTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_logo_url",
		Description: "Get a brand logo URL quickly using domain lookup or name search with heuristics. Returns the logo URL and source method used.",
		InputSchema: inputSchema(map[string]any{
			"domain": map[string]any{"type": "string", "description": "The company domain (e.g., 'github.com') - preferred for fastest lookup"},
			"name":   map[string]any{"type": "string", "description": "Brand name to search (e.g., 'GitHub') - uses heuristics then API fallback"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*logoURLRequest)
		switch {
		case r.Domain != "":
			return s.resolver.ResolveDomain(ctx, r.Domain)
		case r.Name != "":
			return s.resolver.ResolveName(ctx, r.Name)
		default:
			return nil, &InvalidInputError{Reason: "either 'domain' or 'name' must be provided"}
		}
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r logoURLRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode, func(resp any) string {
		out := resp.(*LookupOutcome)
		if out.Source == SourceNone {
			return "❌ **No logo found** for the specified domain/name."
		}
		return fmt.Sprintf("**Logo URL:** %s\n**Source:** %s", out.URL, out.Source)
	})
}

// --- brand_api_status ---

func (s *Service) registerUsageStatusTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "brand_api_status",
		Description: "Report this month's usage of the rate-limited brand search API: calls made, limit, and remaining budget.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		return s.checked.Status(ctx)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode, func(resp any) string {
		return FormatStatus(resp.(*UsageStatus))
	})
}
