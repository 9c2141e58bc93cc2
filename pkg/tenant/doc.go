// Package tenant provides the multi-tenancy core for storekit: request-scoped
// tenant context, host-header tenant resolution, and the scoping layer that
// every data-access path goes through.
//
// The package is built around four concepts:
//
//  1. Context - a per-request frame carrying the current tenant and whether
//     isolation enforcement is active. Frames nest and restore through
//     context.Context immutability.
//  2. Scope - the explicit tenant-scoping handle repositories pull from the
//     context at every call site. It stamps tenant ownership on writes,
//     rejects cross-tenant writes, and produces query-level predicates for
//     reads.
//  3. Resolver + Middleware - extract a subdomain from the inbound host
//     header, load the matching active tenant (with positive and negative
//     caching), and install the context frame for the request's duration.
//  4. Provider - loads tenant records from a data source.
//
// # Usage
//
//	resolver := tenant.SubdomainResolver()
//	mw := tenant.Middleware(resolver, provider,
//		tenant.WithBypassPaths("/health", "/metrics", "/admin"),
//	)
//	router.Use(mw)
//
//	// In a repository:
//	scope, err := tenant.ScopeFromContext(ctx)
//	if err != nil {
//		return err // no tenant bound while enforcement is on
//	}
//
// Cross-tenant administrative flows run inside an explicitly disabled scope:
//
//	ctx = tenant.WithEnforcementDisabled(ctx)
package tenant
