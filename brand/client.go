package brand

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBody caps the amount of response data read from the vendor
// to prevent memory exhaustion (10 MiB).
const maxResponseBody int64 = 10 << 20

// brandCallTimeout is the per-request timeout for full brand-record and
// search calls. The checked orchestrator's lighter endpoints use the
// configurable shorter timeout instead.
const brandCallTimeout = 30 * time.Second

const defaultSearchLimit = 10

// Client talks to the vendor's brand REST API. It carries two bearer
// keys: the brand key for full records and search, and (through the
// checked orchestrator) the logo key for the high-quota logo tier.
type Client struct {
	cfg      *Config
	brandKey string
	http     *http.Client
	checked  *CheckedLookup
	logger   *slog.Logger
}

// NewClient builds a Client. It fails when no API key is configured at
// all; a single missing tier only fails the operations needing it.
// checked may be nil, in which case GetBrandLogo selects from the full
// record directly.
func NewClient(cfg *Config, checked *CheckedLookup, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	brandKey, legacy := cfg.brandKey()
	if legacy {
		logger.Warn("BRANDFETCH_API_KEY is deprecated, use BRANDFETCH_BRAND_KEY; falling back for compatibility")
	}
	if cfg.LogoKey == "" && brandKey == "" {
		return nil, errors.New(
			"no API keys configured: set BRANDFETCH_LOGO_KEY (logo tier), BRANDFETCH_BRAND_KEY (brand/search tier), or both")
	}

	return &Client{
		cfg:      cfg,
		brandKey: brandKey,
		http:     &http.Client{Timeout: brandCallTimeout},
		checked:  checked,
		logger:   logger,
	}, nil
}

// GetBrand retrieves the full vendor brand record for a domain.
func (c *Client) GetBrand(ctx context.Context, domain string) (*BrandRecord, error) {
	if c.brandKey == "" {
		return nil, &AuthError{Tier: "brand"}
	}
	domain, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetching brand data", "domain", domain)
	body, err := c.getJSON(ctx, c.cfg.APIBase+"/brands/"+domain, "brand", domain)
	if err != nil {
		return nil, err
	}

	var rec BrandRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, &APIError{Op: "brand", Status: http.StatusOK, Body: "unparseable response body"}
	}
	return &rec, nil
}

// SearchBrands searches the vendor by name or keyword. The vendor has no
// limit parameter, so the result list is truncated client-side.
func (c *Client) SearchBrands(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &InvalidInputError{Input: query, Reason: "search query must be a non-empty string"}
	}
	if c.brandKey == "" {
		return nil, &AuthError{Tier: "brand"}
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	c.logger.Info("searching brands", "query", query, "limit", limit)
	body, err := c.getJSON(ctx, c.cfg.APIBase+"/search/"+url.PathEscape(query), "brand", query)
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, &APIError{Op: "brand", Status: http.StatusOK, Body: "unparseable response body"}
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// GetBrandColors returns the brand's color palette with defaulted type
// fields. An empty palette is a not-found error.
func (c *Client) GetBrandColors(ctx context.Context, domain string) ([]ColorEntry, error) {
	rec, err := c.GetBrand(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch colors: %w", err)
	}

	if len(rec.Colors) == 0 {
		return nil, &NotFoundError{Domain: rec.Domain, What: "colors"}
	}

	colors := make([]ColorEntry, len(rec.Colors))
	for i, col := range rec.Colors {
		if col.Type == "" {
			col.Type = "unknown"
		}
		colors[i] = col
	}
	return colors, nil
}

// GetBrandLogo fetches a logo for the requested (format, theme, type)
// combination. The quota-checked orchestrator runs first; when it cannot
// produce a candidate, the full brand record is fetched and the closest
// matching asset selected, with a note describing any substitution.
func (c *Client) GetBrandLogo(ctx context.Context, domain, format, theme, logoType string) (*LogoSelection, error) {
	domain, err := NormalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetching logo", "domain", domain, "format", format, "theme", theme, "type", logoType)

	if c.checked != nil {
		res, err := c.checked.LookupLogo(ctx, domain, "")
		if err == nil {
			return &LogoSelection{
				URL:            res.LogoURL,
				Format:         format, // requested; actual may vary
				Theme:          theme,
				Type:           logoType,
				Source:         res.Source,
				Reason:         res.Reason,
				CallsThisMonth: res.CallsThisMonth,
				Warning:        res.Warning,
			}, nil
		}
		c.logger.Warn("checked logo lookup failed, selecting from full brand record",
			"domain", domain, "error", err)
	}

	rec, err := c.GetBrand(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch logo: %w", err)
	}
	return selectLogo(rec, format, theme, logoType)
}

// selectLogo picks the closest asset from a brand record: exact
// (type, theme) match, relaxed to type-only, then any logo; within the
// chosen asset the requested format, falling back to the first format
// available. A note reports what was substituted.
func selectLogo(rec *BrandRecord, format, theme, logoType string) (*LogoSelection, error) {
	if len(rec.Logos) == 0 {
		return nil, &NotFoundError{Domain: rec.Domain, What: "logos"}
	}

	matches := filterLogos(rec.Logos, func(l LogoAsset) bool {
		return l.Type == logoType && l.Theme == theme
	})
	relaxed := ""
	if len(matches) == 0 {
		matches = filterLogos(rec.Logos, func(l LogoAsset) bool { return l.Type == logoType })
		relaxed = "theme"
	}
	if len(matches) == 0 {
		matches = rec.Logos
		relaxed = "type and theme"
	}

	// Prefer an asset carrying the requested format.
	for _, logo := range matches {
		for i := range logo.Formats {
			if logo.Formats[i].Format == format {
				sel := &LogoSelection{
					URL:      logo.Formats[i].Src,
					Format:   format,
					Theme:    logo.Theme,
					Type:     logo.Type,
					Metadata: &logo.Formats[i],
					Source:   SourceRecordFallback,
					Reason:   "selected from full brand record",
				}
				if relaxed != "" {
					sel.Note = substitutionNote(rec.Logos, format, theme, logoType)
				}
				return sel, nil
			}
		}
	}

	// No format match anywhere: first asset, first format.
	first := matches[0]
	if len(first.Formats) == 0 {
		return nil, &NotFoundError{Domain: rec.Domain, What: "logos"}
	}
	return &LogoSelection{
		URL:      first.Formats[0].Src,
		Format:   first.Formats[0].Format,
		Theme:    first.Theme,
		Type:     first.Type,
		Metadata: &first.Formats[0],
		Source:   SourceRecordFallback,
		Reason:   "selected from full brand record",
		Note:     substitutionNote(rec.Logos, format, theme, logoType),
	}, nil
}

func filterLogos(logos []LogoAsset, keep func(LogoAsset) bool) []LogoAsset {
	var out []LogoAsset
	for _, l := range logos {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func substitutionNote(logos []LogoAsset, format, theme, logoType string) string {
	types := make([]string, 0, len(logos))
	themeSet := make(map[string]bool)
	var themes []string
	for _, l := range logos {
		types = append(types, l.Type)
		if !themeSet[l.Theme] {
			themeSet[l.Theme] = true
			themes = append(themes, l.Theme)
		}
	}
	return fmt.Sprintf("Requested (%s, %s, %s) not found. Returned closest available. Available types: [%s], themes: [%s]",
		format, theme, logoType, strings.Join(types, ", "), strings.Join(themes, ", "))
}

// getJSON performs a bearer-authenticated GET and maps non-2xx statuses
// to the error taxonomy. tier selects the failure wording; subject is
// the domain or query used in not-found guidance.
func (c *Client) getJSON(ctx context.Context, rawURL, tier, subject string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.brandKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Op: tier + " API call", Cause: err}
		}
		return nil, &NetworkError{Op: tier + " API call", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &NetworkError{Op: tier + " API read", Cause: err}
	}

	if err := mapStatus(tier, subject, resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func mapStatus(tier, subject string, status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return &NotFoundError{Domain: subject, What: "brand"}
	case status == http.StatusUnauthorized:
		return &AuthError{Tier: tier}
	case status == http.StatusTooManyRequests:
		return &RateLimitError{Tier: tier}
	default:
		return &APIError{Op: tier, Status: status, Body: string(body)}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
