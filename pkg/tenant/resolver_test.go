package tenant_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/storekit/pkg/tenant"
)

func TestSubdomainResolver(t *testing.T) {
	t.Parallel()

	resolver := tenant.SubdomainResolver()

	tests := []struct {
		url  string
		want string
	}{
		{"http://shop1.example.com/products", "shop1"},
		{"http://shop1.example.com:8080/products", "shop1"},
		{"http://a.b.c.example.com/", "a"},
		{"http://example.com/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", tt.url, nil)
			assert.Equal(t, tt.want, resolver(req))
		})
	}
}

func TestHeaderResolver(t *testing.T) {
	t.Parallel()

	t.Run("reads configured header", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.HeaderResolver("X-Store")
		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("X-Store", "Acme")

		assert.Equal(t, "acme", resolver(req))
	})

	t.Run("defaults header name", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.HeaderResolver("")
		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("X-Tenant-Subdomain", "acme")

		assert.Equal(t, "acme", resolver(req))
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		t.Parallel()

		resolver := tenant.HeaderResolver("X-Store")
		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("X-Store", "not a subdomain!")

		assert.Equal(t, "", resolver(req))
	})
}
