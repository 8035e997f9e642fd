package brand

import (
	"regexp"
	"strings"
)

const minDomainLength = 4

// NormalizeDomain reduces a raw user input (URL or bare domain) to a
// lowercase bare host: no scheme, port, path, www. prefix, or trailing
// slash. Returns *InvalidInputError when the result has no dot or is too
// short to be a domain.
func NormalizeDomain(raw string) (string, error) {
	domain := strings.TrimSpace(raw)
	if domain == "" {
		return "", &InvalidInputError{Input: raw, Reason: "domain must be a non-empty string"}
	}

	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")

	// Path first, then port: "host:3000/x" and "host/x:y" both reduce
	// to the host.
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	if i := strings.IndexByte(domain, ':'); i >= 0 {
		domain = domain[:i]
	}

	domain = strings.ToLower(domain)
	domain = strings.TrimPrefix(domain, "www.")
	domain = strings.Trim(domain, "/ ")

	if !strings.Contains(domain, ".") || len(domain) < minDomainLength {
		return "", &InvalidInputError{Input: raw, Reason: "invalid domain format"}
	}
	return domain, nil
}

var (
	nonWordRe    = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Corporate suffixes stripped from brand names before domain guessing.
// Checked in order; "corporation" before "corp" is irrelevant since each
// is tested against the already-stripped remainder.
var corporateSuffixes = []string{
	"inc", "llc", "corp", "corporation", "company", "co",
	"ltd", "limited", "group", "labs", "studio",
}

// TLDs tried when guessing a domain from a brand name.
var commonTLDs = []string{".com", ".co", ".io", ".net", ".org", ".app", ".dev"}

// normalizeNameForDomain turns a brand name into a domain-label
// candidate: lowercase, punctuation and whitespace removed, corporate
// suffixes stripped.
func normalizeNameForDomain(name string) string {
	if name == "" {
		return ""
	}

	normalized := strings.ToLower(name)
	normalized = nonWordRe.ReplaceAllString(normalized, "")
	normalized = whitespaceRe.ReplaceAllString(normalized, "")

	for _, suffix := range corporateSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimRight(normalized[:len(normalized)-len(suffix)], "-")
		}
	}
	return normalized
}

// domainCandidates generates potential domains for a brand name: the
// normalized label crossed with common TLDs, bare and www.-prefixed.
func domainCandidates(name string) []string {
	normalized := normalizeNameForDomain(name)
	if normalized == "" {
		return nil
	}

	candidates := make([]string, 0, 2*len(commonTLDs))
	for _, tld := range commonTLDs {
		candidates = append(candidates, normalized+tld, "www."+normalized+tld)
	}
	return candidates
}
