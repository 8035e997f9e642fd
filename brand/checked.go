package brand

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/djmoore711/brandfetch-mcp/brand/internal/store"
)

// CheckedLookup resolves logos while enforcing the monthly cap on the
// metered brand-search endpoint. The free logo endpoint is always tried
// first; only a completed search response spends quota.
type CheckedLookup struct {
	cfg    *Config
	store  *store.Store
	http   *http.Client
	logger *slog.Logger
	now    func() time.Time
}

func NewCheckedLookup(cfg *Config, st *store.Store, logger *slog.Logger) *CheckedLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckedLookup{
		cfg:    cfg,
		store:  st,
		http:   &http.Client{Timeout: cfg.RequestTimeout()},
		logger: logger,
		now:    time.Now,
	}
}

// LookupLogo finds a logo URL for domain. hint, when non-empty, replaces
// the domain as the metered search query (useful when the company name
// is known and the domain is obscure).
//
// The logo endpoint is unmetered, so its failures never abort the
// lookup; they just leave the candidate list empty. The search endpoint
// is metered: a request that never reached the vendor costs nothing,
// while any completed HTTP exchange counts against the month.
func (l *CheckedLookup) LookupLogo(ctx context.Context, rawDomain, hint string) (*CheckedResult, error) {
	domain, err := NormalizeDomain(rawDomain)
	if err != nil {
		return nil, err
	}
	if l.cfg.LogoKey == "" {
		return nil, &AuthError{Tier: "logo"}
	}

	month := store.MonthKey(l.now())

	if logoURL, ok := l.tryLogoEndpoint(ctx, domain); ok {
		l.logger.Info("logo resolved from domain endpoint", "domain", domain)
		count, err := l.store.Count(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("read usage counter: %w", err)
		}
		return &CheckedResult{
			LogoURL:        logoURL,
			Source:         SourceDomainLogo,
			Reason:         "logo endpoint returned a matching asset for the domain",
			CallsThisMonth: count,
		}, nil
	}

	count, err := l.store.Count(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("read usage counter: %w", err)
	}
	if count >= l.cfg.MonthLimit {
		l.logger.Warn("monthly search quota exhausted", "month", month, "count", count, "limit", l.cfg.MonthLimit)
		return nil, &QuotaExceededError{Count: count, Limit: l.cfg.MonthLimit}
	}
	warning := l.warningFor(count)

	query := hint
	if query == "" {
		query = domain
	}
	logo, completed, err := l.trySearchEndpoint(ctx, query)
	if err != nil && !completed {
		// The request never produced a vendor response, so nothing is
		// charged against the month.
		return nil, err
	}

	count, incErr := l.store.Increment(ctx, month, 1)
	if incErr != nil {
		return nil, fmt.Errorf("record usage: %w", incErr)
	}
	l.logger.Info("metered search call recorded", "month", month, "count", count, "limit", l.cfg.MonthLimit)

	if logo == "" {
		return nil, &NoLogoError{Domain: domain, Count: count, Warning: warning}
	}
	return &CheckedResult{
		LogoURL:        logo,
		Source:         SourceCheckedSearch,
		Reason:         "domain lookup failed or mismatch; resolved via metered brand search",
		CallsThisMonth: count,
		Warning:        warning,
	}, nil
}

// Status reports the current month's quota position.
func (l *CheckedLookup) Status(ctx context.Context) (*UsageStatus, error) {
	month := store.MonthKey(l.now())
	count, err := l.store.Count(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("read usage counter: %w", err)
	}
	remaining := l.cfg.MonthLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return &UsageStatus{
		Month:            month,
		Count:            count,
		Limit:            l.cfg.MonthLimit,
		Remaining:        remaining,
		WarnThreshold:    l.cfg.WarnThreshold,
		ApproachingLimit: count >= l.cfg.WarnThreshold,
	}, nil
}

func (l *CheckedLookup) warningFor(count int) string {
	if count < l.cfg.WarnThreshold {
		return ""
	}
	return fmt.Sprintf("approaching monthly limit: %d of %d metered calls used", count, l.cfg.MonthLimit)
}

// tryLogoEndpoint calls the free logo endpoint and reports a candidate
// URL when the response plausibly belongs to the requested domain.
func (l *CheckedLookup) tryLogoEndpoint(ctx context.Context, domain string) (string, bool) {
	target := strings.ReplaceAll(l.cfg.LogoAPITemplate, "{domain}", domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("Authorization", "Bearer "+l.cfg.LogoKey)
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		l.logger.Warn("logo endpoint unreachable, continuing to search stage", "domain", domain, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Debug("logo endpoint miss", "domain", domain, "status", resp.StatusCode)
		return "", false
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", false
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		decoded = nil
	}
	candidates := extractLogoCandidates(decoded, string(raw), l.cfg.ClientID)
	if len(candidates) == 0 {
		return "", false
	}
	if !domainMatchesCandidates(domain, candidates, decoded) {
		l.logger.Debug("logo endpoint candidates did not match domain", "domain", domain, "candidates", len(candidates))
		return "", false
	}
	return candidates[0], true
}

// trySearchEndpoint performs the metered search and returns the best
// logo candidate from the response. completed reports whether an HTTP
// response arrived, which is what makes the call chargeable regardless
// of its status or payload.
func (l *CheckedLookup) trySearchEndpoint(ctx context.Context, query string) (logo string, completed bool, err error) {
	key, _ := l.cfg.brandKey()
	if key == "" {
		return "", false, &AuthError{Tier: "brand"}
	}

	target := l.cfg.APIBase + "/search/" + url.PathEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", false, &NetworkError{Op: "brand search", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")

	resp, err := l.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", false, &TimeoutError{Op: "brand search", Cause: err}
		}
		return "", false, &NetworkError{Op: "brand search", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Warn("brand search returned unexpected status", "query", query, "status", resp.StatusCode)
		return "", true, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", true, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		decoded = nil
	}
	candidates := extractLogoCandidates(decoded, string(raw), l.cfg.ClientID)
	if len(candidates) == 0 {
		return "", true, nil
	}
	return candidates[0], true, nil
}
