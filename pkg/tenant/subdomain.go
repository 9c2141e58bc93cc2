package tenant

import (
	"regexp"
	"strings"
)

// subdomainPattern matches DNS-safe labels: alphanumeric edges, hyphens
// allowed inside, at most 63 characters.
var subdomainPattern = regexp.MustCompile(`^(?i)[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// MaxSubdomainLength is the storage limit for tenant subdomains.
const MaxSubdomainLength = 60

// defaultReservedSubdomains can never be claimed by a tenant. The set is
// configurable through ValidateSubdomainIn.
var defaultReservedSubdomains = []string{
	"www", "api", "admin", "app", "mail", "ftp", "localhost", "static", "media",
}

// NormalizeSubdomain lowercases and trims a candidate subdomain.
func NormalizeSubdomain(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateSubdomain checks format and the default reserved-word set.
// Returns ErrSubdomainInvalid or ErrSubdomainReserved.
func ValidateSubdomain(s string) error {
	return ValidateSubdomainIn(s, defaultReservedSubdomains)
}

// ValidateSubdomainIn checks format against a caller-provided reserved set.
// Matching is case-insensitive on both sides.
func ValidateSubdomainIn(s string, reserved []string) error {
	normalized := NormalizeSubdomain(s)
	if normalized == "" || len(normalized) > MaxSubdomainLength || !subdomainPattern.MatchString(normalized) {
		return ErrSubdomainInvalid
	}
	for _, r := range reserved {
		if normalized == strings.ToLower(r) {
			return ErrSubdomainReserved
		}
	}
	return nil
}

// ExtractSubdomain pulls the tenant subdomain candidate out of a host header.
//
// The port is stripped first, then the host must have at least three
// dot-separated labels (subdomain.domain.tld); the first label is the
// candidate. Returns "" when no valid candidate exists:
//
//	shop1.example.com      -> shop1
//	shop1.example.com:8080 -> shop1
//	a.b.c.example.com      -> a
//	example.com            -> ""
func ExtractSubdomain(host string) string {
	if host == "" {
		return ""
	}

	// Remove port ("example.com:8000" -> "example.com")
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	host = strings.ToLower(host)

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return ""
	}

	subdomain := parts[0]
	if !subdomainPattern.MatchString(subdomain) {
		return ""
	}
	return subdomain
}
