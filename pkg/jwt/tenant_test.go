package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/storekit/pkg/jwt"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

func testTenant() *tenant.Tenant {
	return &tenant.Tenant{
		ID:        uuid.New(),
		Name:      "Acme Pharmacy",
		Subdomain: "acme",
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func TestRequireTenantMatch(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("passes when claim matches resolved tenant", func(t *testing.T) {
		t.Parallel()

		tn := testTenant()
		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		ctx := tenant.WithTenant(req.Context(), tn)
		ctx = jwt.SetClaims(ctx, jwt.TenantClaims{TenantID: tn.ID.String()})

		rec := httptest.NewRecorder()
		jwt.RequireTenantMatch()(okHandler).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("rejects token minted for another tenant", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		ctx := tenant.WithTenant(req.Context(), testTenant())
		ctx = jwt.SetClaims(ctx, jwt.TenantClaims{TenantID: uuid.NewString()})

		rec := httptest.NewRecorder()
		jwt.RequireTenantMatch()(okHandler).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects request without resolved tenant", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		ctx := jwt.SetClaims(req.Context(), jwt.TenantClaims{TenantID: uuid.NewString()})

		rec := httptest.NewRecorder()
		jwt.RequireTenantMatch()(okHandler).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects request without claims", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		ctx := tenant.WithTenant(req.Context(), testTenant())

		rec := httptest.NewRecorder()
		jwt.RequireTenantMatch()(okHandler).ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
