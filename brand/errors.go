package brand

import "fmt"

// InvalidInputError is returned for bad domains or empty queries before
// any network call is attempted.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// NotFoundError is returned when the vendor has no record (404) or the
// record lacks the requested data.
type NotFoundError struct {
	Domain string
	What   string // "brand", "logos", "colors"
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found for domain %s — verify the domain, or use search_brands to find the right one",
		e.What, e.Domain)
}

// AuthError is returned on 401 or when the key for a tier is not
// configured at all.
type AuthError struct {
	Tier string // "logo" or "brand"
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s API authentication failed: the key may be missing, invalid or expired — check BRANDFETCH_%s_KEY",
		e.Tier, upperTier(e.Tier))
}

func upperTier(tier string) string {
	if tier == "logo" {
		return "LOGO"
	}
	return "BRAND"
}

// RateLimitError is the vendor's 429. Distinct from QuotaExceededError,
// which is the local monthly counter.
type RateLimitError struct {
	Tier string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s API rate limit exceeded (429): wait a few minutes before retrying", e.Tier)
}

// QuotaExceededError means the local monthly budget for the limited
// search endpoint is spent. No vendor call was made.
type QuotaExceededError struct {
	Count int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("brand API monthly limit reached (%d/%d calls): try again next month", e.Count, e.Limit)
}

// NoLogoError means both the domain lookup and the metered search
// completed without producing a candidate. The search call was counted.
type NoLogoError struct {
	Domain  string
	Count   int
	Warning string
}

func (e *NoLogoError) Error() string {
	return fmt.Sprintf("no logo candidate found for %s from domain lookup or brand search", e.Domain)
}

// NetworkError is a transport failure before any HTTP response arrived.
// It never consumes quota.
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// TimeoutError is a request that exceeded its deadline.
type TimeoutError struct {
	Op    string
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout during %s: the server took too long to respond", e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// APIError is any other non-2xx vendor response, or a response whose
// body could not be parsed where structured data was expected.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s API error %d: %s", e.Op, e.Status, body)
}
