package brand

import (
	"net/url"
	"regexp"
	"strings"
)

var absoluteURLRe = regexp.MustCompile(`(?i)https?://[^\s'"<>]+`)

var imageExtensions = []string{".png", ".svg", ".jpg", ".jpeg", ".webp", ".gif", ".ico"}

// looksLikeImage reports whether a URL mentions a known image extension.
func looksLikeImage(u string) bool {
	lower := strings.ToLower(u)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

// extractLogoCandidates scans a decoded JSON value and the raw response
// text for logo URL candidates, image-extension matches first, then any
// other absolute URL as a weaker fallback. The any-absolute-URL tail is
// a known approximation: some vendor image endpoints serve images from
// extensionless URLs, at the cost of occasional false positives. The
// list is deduplicated in order, and CDN-hosted URLs get the client id
// appended.
func extractLogoCandidates(decoded any, raw string, clientID string) []string {
	found := findImageURLs(decoded)
	found = append(found, absoluteURLRe.FindAllString(raw, -1)...)

	seen := make(map[string]bool, len(found))
	var images, others []string
	for _, u := range found {
		if seen[u] {
			continue
		}
		seen[u] = true
		if looksLikeImage(u) {
			images = append(images, u)
		} else {
			others = append(others, u)
		}
	}

	candidates := append(images, others...)
	for i, u := range candidates {
		candidates[i] = appendClientID(u, clientID)
	}
	return candidates
}

// findImageURLs recursively walks a decoded JSON value (string, number,
// bool, nil, []any, map[string]any) collecting every absolute URL found
// as a value or embedded in a longer string.
func findImageURLs(obj any) []string {
	var found []string
	switch v := obj.(type) {
	case string:
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			found = append(found, v)
		} else {
			found = append(found, absoluteURLRe.FindAllString(v, -1)...)
		}
	case map[string]any:
		for _, val := range v {
			found = append(found, findImageURLs(val)...)
		}
	case []any:
		for _, item := range v {
			found = append(found, findImageURLs(item)...)
		}
	}
	return found
}

// appendClientID adds ?c=<clientID> to cdn.brandfetch.io URLs for
// hotlinking attribution. Other hosts and empty client ids pass through
// unchanged.
func appendClientID(rawURL, clientID string) string {
	if clientID == "" {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || !strings.Contains(parsed.Host, "cdn.brandfetch.io") {
		return rawURL
	}
	q := parsed.Query()
	q.Set("c", clientID)
	parsed.RawQuery = q.Encode()
	return parsed.String()
}

// domainMatchesCandidates reports whether any candidate URL textually
// contains the domain, or the decoded response carries a matching
// domain/host field at the top level or under data/brand.
func domainMatchesCandidates(domain string, candidates []string, decoded any) bool {
	domain = strings.ToLower(domain)
	for _, c := range candidates {
		if c != "" && strings.Contains(strings.ToLower(c), domain) {
			return true
		}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return false
	}
	if hostFieldMatches(obj, domain) {
		return true
	}
	for _, key := range []string{"data", "brand"} {
		if nested, ok := obj[key].(map[string]any); ok && hostFieldMatches(nested, domain) {
			return true
		}
	}
	return false
}

func hostFieldMatches(obj map[string]any, domain string) bool {
	for _, key := range []string{"host", "domain", "website", "url"} {
		if v, ok := obj[key].(string); ok && strings.Contains(strings.ToLower(v), domain) {
			return true
		}
	}
	return false
}
