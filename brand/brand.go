// Package brand exposes vendor brand data (logos, colors, company
// details) as MCP tools, with a quota-guarded path to the metered
// search endpoint.
//
// The pipeline per logo request:
//
//	normalize → cache → CDN probe → heuristic guesses → metered search
//
// Key features:
//   - Logo resolution without quota spend wherever possible
//   - Persistent monthly counter for the metered search tier
//   - Two-tier cache (Redis + in-process) for resolved URLs
//   - MCP tools: brand details, search, logo, colors, logo URL, usage
//
// Usage:
//
//	svc, err := brand.New(ctx, cfg, logger)
//	defer svc.Close()
//	svc.RegisterMCP(mcpServer)
package brand

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/djmoore711/brandfetch-mcp/brand/internal/cache"
	"github.com/djmoore711/brandfetch-mcp/brand/internal/store"
)

// Service is the main brand orchestrator.
type Service struct {
	cfg      *Config
	store    *store.Store
	cache    cache.Cache
	resolver *Resolver
	checked  *CheckedLookup
	client   *Client
	logger   *slog.Logger
}

// New creates a Service. Opens the SQLite usage database, connects the
// cache (degrading to in-process only when Redis is unreachable), and
// wires the resolver, checked lookup, and vendor client.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (*Service, error) {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open usage store: %w", err)
	}

	c := cache.FromConfig(ctx, cfg.RedisURL, cfg.CacheTTL(), logger)
	checked := NewCheckedLookup(cfg, st, logger)

	client, err := NewClient(cfg, checked, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &Service{
		cfg:      cfg,
		store:    st,
		cache:    c,
		resolver: NewResolver(cfg, c, logger),
		checked:  checked,
		client:   client,
		logger:   logger,
	}, nil
}

// Close releases the usage database and any remote cache connection.
func (s *Service) Close() error {
	if closer, ok := s.cache.(interface{ Close() error }); ok {
		closer.Close()
	}
	return s.store.Close()
}
