package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storekit/pkg/validator"
)

func TestBusinessEmail(t *testing.T) {
	t.Parallel()

	t.Run("accepts regular providers", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(validator.BusinessEmail("email", "owner@acme-pharmacy.com"))
		assert.NoError(t, err)
	})

	t.Run("rejects disposable providers", func(t *testing.T) {
		t.Parallel()

		for _, email := range []string{
			"x@tempmail.com",
			"x@mailinator.com",
			"x@10minutemail.com",
			"x@Mailinator.COM",
		} {
			err := validator.Apply(validator.BusinessEmail("email", email))
			require.Error(t, err, email)

			ve := validator.ExtractValidationErrors(err)
			require.Len(t, ve, 1)
			assert.Equal(t, "email", ve[0].Field)
		}
	})

	t.Run("rejects extra caller-supplied domains", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(validator.BusinessEmailIn("email", "x@spam.example", []string{"spam.example"}))
		assert.Error(t, err)
	})
}

func TestPlausibleTenantName(t *testing.T) {
	t.Parallel()

	t.Run("accepts real store names", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"Acme Pharmacy", "Globex", "abc"} {
			assert.NoError(t, validator.Apply(validator.PlausibleTenantName("name", name)), name)
		}
	})

	t.Run("rejects blocked and short names", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"test", "ADMIN", "root", "ab", "  x  ", ""} {
			assert.Error(t, validator.Apply(validator.PlausibleTenantName("name", name)), name)
		}
	})
}

func TestApplyAggregatesErrors(t *testing.T) {
	t.Parallel()

	err := validator.Apply(
		validator.ValidEmail("email", "not-an-email"),
		validator.PlausibleTenantName("name", "ab"),
	)
	require.Error(t, err)

	ve := validator.ExtractValidationErrors(err)
	assert.Len(t, ve, 2)
	assert.True(t, ve.Has("email"))
	assert.True(t, ve.Has("name"))
}
