package jwt

import (
	"net/http"

	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// TenantClaims augments the standard claims with the owning tenant's
// identifier. Every token issued for a tenant-scoped principal must carry it.
type TenantClaims struct {
	StandardClaims
	TenantID string `json:"tenant_id,omitempty"`
}

// RequireTenantMatch cross-checks the tenant claim of an already validated
// token against the tenant resolved from the request host. A token minted for
// one tenant is useless against another tenant's subdomain.
//
// Mount after both the tenant middleware and the JWT middleware.
func RequireTenantMatch() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolved, ok := tenant.IDFromContext(r.Context())
			if !ok {
				http.Error(w, "Tenant not found", http.StatusNotFound)
				return
			}

			var claims TenantClaims
			if err := GetClaimsAs(r.Context(), &claims); err != nil {
				http.Error(w, ErrInvalidClaims.Error(), http.StatusUnauthorized)
				return
			}

			if claims.TenantID != resolved.String() {
				http.Error(w, "Token does not belong to this tenant", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
