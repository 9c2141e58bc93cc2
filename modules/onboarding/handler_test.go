package onboarding_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/storekit/modules/onboarding"
	"github.com/dmitrymomot/storekit/modules/user"
)

func newTestHandler() http.Handler {
	users := user.NewMemoryRepository()
	store := onboarding.NewMemoryStore(users)
	svc := onboarding.NewService(store, onboarding.WithBcryptCost(bcrypt.MinCost))
	return onboarding.NewHandler(svc).Router()
}

func postSignup(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Signup(t *testing.T) {
	t.Parallel()

	t.Run("successful signup", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler()
		rec := postSignup(t, h, `{
			"store_name": "Corner Pharmacy",
			"subdomain": "corner-pharmacy",
			"email": "owner@cornerpharmacy.test",
			"password": "correct-horse7",
			"first_name": "Dana",
			"last_name": "Kim"
		}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		var result onboarding.Result
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		assert.Equal(t, "corner-pharmacy", result.Tenant.Subdomain)
		assert.False(t, result.Tenant.Active)
		assert.Equal(t, user.RoleManager, result.Manager.Role)
		assert.False(t, result.Manager.IsActive)
		assert.Empty(t, result.Manager.PasswordHash, "hash must not leak into the response")
	})

	t.Run("validation errors reported per field", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler()
		rec := postSignup(t, h, `{
			"store_name": "Corner Pharmacy",
			"subdomain": "admin",
			"email": "drop@mailinator.com",
			"password": "short"
		}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			Error  string              `json:"error"`
			Fields map[string][]string `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp.Fields, "subdomain")
		assert.Contains(t, resp.Fields, "email")
		assert.Contains(t, resp.Fields, "password")
	})

	t.Run("duplicate subdomain conflicts", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler()
		body := `{
			"store_name": "Corner Pharmacy",
			"subdomain": "corner-pharmacy",
			"email": "owner@cornerpharmacy.test",
			"password": "correct-horse7"
		}`
		require.Equal(t, http.StatusCreated, postSignup(t, h, body).Code)
		assert.Equal(t, http.StatusConflict, postSignup(t, h, body).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler()
		rec := postSignup(t, h, `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
