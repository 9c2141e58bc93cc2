package tenant

import (
	"net/http"
)

// Resolver extracts a tenant subdomain candidate from an HTTP request.
// Returns empty string if no candidate is found.
type Resolver func(r *http.Request) string

// SubdomainResolver resolves the tenant from the request's host header.
// See ExtractSubdomain for the exact host-splitting rules.
func SubdomainResolver() Resolver {
	return func(req *http.Request) string {
		return ExtractSubdomain(req.Host)
	}
}

// HeaderResolver resolves the tenant subdomain from an HTTP header, useful
// behind proxies that terminate the original host.
func HeaderResolver(headerName string) Resolver {
	if headerName == "" {
		headerName = "X-Tenant-Subdomain"
	}
	return func(req *http.Request) string {
		candidate := NormalizeSubdomain(req.Header.Get(headerName))
		if candidate == "" || !subdomainPattern.MatchString(candidate) {
			return ""
		}
		return candidate
	}
}
