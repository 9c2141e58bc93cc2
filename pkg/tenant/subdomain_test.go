package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/storekit/pkg/tenant"
)

func TestExtractSubdomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		want string
	}{
		{"shop1.example.com", "shop1"},
		{"shop1.example.com:8080", "shop1"},
		{"a.b.c.example.com", "a"},
		{"example.com", ""},
		{"example.com:8000", ""},
		{"localhost", ""},
		{"localhost:3000", ""},
		{"SHOP1.Example.COM", "shop1"},
		{"shop-1.example.com", "shop-1"},
		{"-bad.example.com", ""},
		{"bad-.example.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tenant.ExtractSubdomain(tt.host))
		})
	}
}

func TestValidateSubdomain(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid subdomains", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"acme", "shop-1", "a", "a1b2", "  Acme  "} {
			assert.NoError(t, tenant.ValidateSubdomain(s), s)
		}
	})

	t.Run("rejects invalid formats", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"", "-acme", "acme-", "ac me", "a.b", "véry"} {
			assert.ErrorIs(t, tenant.ValidateSubdomain(s), tenant.ErrSubdomainInvalid, s)
		}
	})

	t.Run("rejects reserved words case-insensitively", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"admin", "ADMIN", "Www", "api", "localhost", "media"} {
			assert.ErrorIs(t, tenant.ValidateSubdomain(s), tenant.ErrSubdomainReserved, s)
		}
	})

	t.Run("honors custom reserved set", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, tenant.ValidateSubdomainIn("internal", []string{"internal"}), tenant.ErrSubdomainReserved)
		assert.NoError(t, tenant.ValidateSubdomainIn("admin", []string{"internal"}))
	})

	t.Run("rejects overlong subdomains", func(t *testing.T) {
		t.Parallel()

		long := make([]byte, tenant.MaxSubdomainLength+1)
		for i := range long {
			long[i] = 'a'
		}
		assert.ErrorIs(t, tenant.ValidateSubdomain(string(long)), tenant.ErrSubdomainInvalid)
	})
}
