package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/storekit/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Owner@Example.COM", "owner@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"dotty..local@example.com", "dotty.local@example.com"},
		{".leading@example.com", "leading@example.com"},
		{"trailing.@example.com", "trailing@example.com"},
		{"not-an-email", "not-an-email"},
		{"two@@example.com", "two@@example.com"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizer.NormalizeEmail(tc.in), "input %q", tc.in)
	}
}

func TestExtractEmailDomain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", sanitizer.ExtractEmailDomain("user@Example.Com"))
	assert.Equal(t, "", sanitizer.ExtractEmailDomain("no-at-sign"))
	assert.Equal(t, "", sanitizer.ExtractEmailDomain("user@"))
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "o****@example.com", sanitizer.MaskEmail("owner@example.com"))
	assert.Equal(t, "*@example.com", sanitizer.MaskEmail("o@example.com"))
	assert.Equal(t, "not-an-email", sanitizer.MaskEmail("not-an-email"))
}
