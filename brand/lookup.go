package brand

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/djmoore711/brandfetch-mcp/brand/internal/cache"
)

const (
	// probeTimeout bounds each CDN existence check; probes are cheap
	// HEAD/ranged-GET requests and anything slower is treated as absent.
	probeTimeout = 3 * time.Second

	searchTimeout = 10 * time.Second

	// maxCandidateProbes caps how many heuristic domain guesses are
	// probed per lookup.
	maxCandidateProbes = 5

	// maxConcurrentSearches bounds in-flight vendor search calls across
	// all lookups sharing a Resolver.
	maxConcurrentSearches = 5
)

// Resolver finds a logo URL for a domain or company name without
// spending metered API quota. Domains go cache → CDN probe; names go
// cache → heuristic domain guesses → vendor search as last resort.
type Resolver struct {
	cfg       *Config
	cache     cache.Cache
	probe     *http.Client
	search    *http.Client
	searchSem *semaphore.Weighted
	logger    *slog.Logger
}

func NewResolver(cfg *Config, c cache.Cache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cfg:       cfg,
		cache:     c,
		probe:     &http.Client{Timeout: probeTimeout},
		search:    &http.Client{Timeout: searchTimeout},
		searchSem: semaphore.NewWeighted(maxConcurrentSearches),
		logger:    logger,
	}
}

// ResolveDomain resolves a logo URL for a known domain. The outcome is
// always non-nil on nil error; Source "none" means every stage missed.
// Negative outcomes are cached like positive ones.
func (r *Resolver) ResolveDomain(ctx context.Context, rawDomain string) (*LookupOutcome, error) {
	domain, err := NormalizeDomain(rawDomain)
	if err != nil {
		return nil, err
	}

	key := "domain:" + domain
	if out, ok := r.cached(ctx, key); ok {
		return out, nil
	}

	out := r.resolveDomainUncached(ctx, domain)
	r.cache.Set(ctx, key, &cache.Entry{URL: out.URL, Source: string(out.Source)})
	return out, nil
}

// ResolveName resolves a logo URL for a free-form company name by
// deriving candidate domains, probing each, then searching the vendor.
func (r *Resolver) ResolveName(ctx context.Context, name string) (*LookupOutcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &InvalidInputError{Input: name, Reason: "company name must be a non-empty string"}
	}

	key := "name:" + strings.ToLower(name)
	if out, ok := r.cached(ctx, key); ok {
		return out, nil
	}

	out := &LookupOutcome{Source: SourceNone}
	candidates := domainCandidates(name)
	probed := 0
	for _, cand := range candidates {
		if probed >= maxCandidateProbes {
			break
		}
		probed++
		if r.probeCDN(ctx, cand) {
			out = &LookupOutcome{URL: r.cdnURL(cand), Source: SourceHeuristic}
			break
		}
	}

	if out.Source == SourceNone {
		if u, ok := r.searchStage(ctx, name); ok {
			out = &LookupOutcome{URL: u, Source: SourceBrandSearch}
		}
	}

	r.cache.Set(ctx, key, &cache.Entry{URL: out.URL, Source: string(out.Source)})
	return out, nil
}

func (r *Resolver) resolveDomainUncached(ctx context.Context, domain string) *LookupOutcome {
	// The domain path is probe-only: searching for a domain string would
	// just re-probe the same domain.
	if r.probeCDN(ctx, domain) {
		return &LookupOutcome{URL: r.cdnURL(domain), Source: SourceCDNDomain}
	}
	return &LookupOutcome{Source: SourceNone}
}

// searchStage resolves via vendor search: the first hit's domain is
// re-probed against the CDN, so the returned URL is always a CDN URL
// rather than whatever icon the search payload carries.
func (r *Resolver) searchStage(ctx context.Context, query string) (string, bool) {
	found, ok := r.searchVendor(ctx, query)
	if !ok {
		return "", false
	}
	if !r.probeCDN(ctx, found) {
		r.logger.Debug("search hit did not validate against CDN", "query", query, "domain", found)
		return "", false
	}
	return r.cdnURL(found), true
}

func (r *Resolver) cached(ctx context.Context, key string) (*LookupOutcome, bool) {
	ent, ok := r.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	r.logger.Debug("logo cache hit", "key", key, "source", ent.Source)
	return &LookupOutcome{URL: ent.URL, Source: Source(ent.Source)}, true
}

func (r *Resolver) cdnURL(domain string) string {
	u := strings.ReplaceAll(r.cfg.CDNTemplate, "{domain}", domain)
	return appendClientID(u, r.cfg.ClientID)
}

// probeCDN checks whether the CDN serves a logo for domain. A 200 on
// HEAD counts as present; hosts refusing HEAD (405, 403) are re-probed
// with a 1 KiB ranged GET where 206 or 200 counts. Any error or other
// status is treated as absent, never surfaced.
func (r *Resolver) probeCDN(ctx context.Context, domain string) bool {
	target := strings.ReplaceAll(r.cfg.CDNTemplate, "{domain}", domain)

	status, ok := r.doProbe(ctx, http.MethodHead, target)
	if !ok {
		return false
	}
	if status == http.StatusOK {
		return true
	}
	if status != http.StatusMethodNotAllowed && status != http.StatusForbidden {
		return false
	}

	status, ok = r.doProbe(ctx, http.MethodGet, target)
	return ok && (status == http.StatusPartialContent || status == http.StatusOK)
}

func (r *Resolver) doProbe(ctx context.Context, method, target string) (int, bool) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, false
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-1023")
	}
	resp, err := r.probe.Do(req)
	if err != nil {
		r.logger.Debug("cdn probe failed", "url", target, "error", err)
		return 0, false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return resp.StatusCode, true
}

// searchVendor queries the vendor search endpoint and returns the first
// hit's domain. Requires the brand-tier key; without it, or on any
// failure, the stage reports a miss.
func (r *Resolver) searchVendor(ctx context.Context, query string) (string, bool) {
	key, _ := r.cfg.brandKey()
	if key == "" {
		r.logger.Debug("search stage skipped, no brand key configured")
		return "", false
	}

	if err := r.searchSem.Acquire(ctx, 1); err != nil {
		return "", false
	}
	defer r.searchSem.Release(1)

	target := r.cfg.APIBase + "/search/" + url.PathEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")

	resp, err := r.search.Do(req)
	if err != nil {
		r.logger.Warn("vendor search failed", "query", query, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		r.logger.Error("vendor search rejected the brand key, check BRANDFETCH_BRAND_KEY")
		return "", false
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("vendor search returned unexpected status", "query", query, "status", resp.StatusCode)
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", false
	}

	var hits []SearchHit
	if err := json.Unmarshal(body, &hits); err != nil {
		r.logger.Warn("vendor search returned unparseable body", "query", query)
		return "", false
	}
	for _, hit := range hits {
		if hit.Domain != "" {
			r.logger.Info("vendor search found domain", "query", query, "domain", hit.Domain)
			return hit.Domain, true
		}
	}
	return "", false
}
