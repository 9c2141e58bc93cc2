package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/storekit/modules/user"
	"github.com/dmitrymomot/storekit/pkg/tenant"
	"github.com/dmitrymomot/storekit/pkg/validator"
)

func tenantCtx(t *tenant.Tenant) context.Context {
	return tenant.WithTenant(context.Background(), t)
}

func newTestTenant(sub string) *tenant.Tenant {
	return &tenant.Tenant{
		ID:        uuid.New(),
		Name:      sub,
		Subdomain: sub,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func newTestService() (*user.Service, *user.MemoryRepository) {
	repo := user.NewMemoryRepository()
	// MinCost keeps hashing fast in tests.
	svc := user.NewService(repo, user.WithBcryptCost(bcrypt.MinCost))
	return svc, repo
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates user and profile in one flow", func(t *testing.T) {
		t.Parallel()

		svc, repo := newTestService()
		pharmacy := newTestTenant("register")
		ctx := tenantCtx(pharmacy)

		u, err := svc.Register(ctx, user.RegisterInput{
			Email:     "Owner@Pharmacy.Test",
			Password:  "correct-horse7",
			Role:      user.RoleManager,
			FirstName: "Dana",
			LastName:  "Kim",
		})
		require.NoError(t, err)
		assert.Equal(t, "owner@pharmacy.test", u.Email)
		assert.Equal(t, pharmacy.ID, u.TenantID)
		assert.Equal(t, user.RoleManager, u.Role)
		assert.True(t, u.IsActive)
		assert.NotEmpty(t, u.PasswordHash)

		profile, err := repo.GetProfile(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dana", profile.FirstName)
		assert.Equal(t, pharmacy.ID, profile.TenantID)
	})

	t.Run("defaults role to customer", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService()
		u, err := svc.Register(tenantCtx(newTestTenant("default-role")), user.RegisterInput{
			Email:    "buyer@example.test",
			Password: "correct-horse7",
		})
		require.NoError(t, err)
		assert.Equal(t, user.RoleCustomer, u.Role)
	})

	t.Run("duplicate email within tenant rejected", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService()
		ctx := tenantCtx(newTestTenant("dup"))

		_, err := svc.Register(ctx, user.RegisterInput{Email: "staff@example.test", Password: "correct-horse7"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, user.RegisterInput{Email: "staff@example.test", Password: "correct-horse7"})
		assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	})

	t.Run("same email allowed across tenants", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService()

		_, err := svc.Register(tenantCtx(newTestTenant("store-a")), user.RegisterInput{Email: "shared@example.test", Password: "correct-horse7"})
		require.NoError(t, err)

		_, err = svc.Register(tenantCtx(newTestTenant("store-b")), user.RegisterInput{Email: "shared@example.test", Password: "correct-horse7"})
		assert.NoError(t, err)
	})

	t.Run("disposable email rejected", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService()
		_, err := svc.Register(tenantCtx(newTestTenant("disposable")), user.RegisterInput{
			Email:    "drop@mailinator.com",
			Password: "correct-horse7",
		})

		var verr validator.ValidationErrors
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has("email"))
	})

	t.Run("weak password rejected", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService()
		_, err := svc.Register(tenantCtx(newTestTenant("weak")), user.RegisterInput{
			Email:    "ok@example.test",
			Password: "short",
		})

		var verr validator.ValidationErrors
		require.ErrorAs(t, err, &verr)
		assert.True(t, verr.Has("password"))
	})

	t.Run("no tenant in context fails", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService()
		_, err := svc.Register(context.Background(), user.RegisterInput{
			Email:    "nobody@example.test",
			Password: "correct-horse7",
		})
		assert.ErrorIs(t, err, tenant.ErrTenantRequired)
	})
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	pharmacy := newTestTenant("auth")
	ctx := tenantCtx(pharmacy)

	registered, err := svc.Register(ctx, user.RegisterInput{
		Email:    "clerk@example.test",
		Password: "correct-horse7",
		Role:     user.RoleStaff,
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "clerk@example.test", "correct-horse7")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "clerk@example.test", "wrong-password1")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost@example.test", "correct-horse7")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("credentials scoped to tenant", func(t *testing.T) {
		_, err := svc.Authenticate(tenantCtx(newTestTenant("other")), "clerk@example.test", "correct-horse7")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestService_ChangePassword(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := tenantCtx(newTestTenant("change-pass"))

	u, err := svc.Register(ctx, user.RegisterInput{Email: "owner@example.test", Password: "correct-horse7"})
	require.NoError(t, err)

	t.Run("wrong old password rejected", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, "not-the-old1", "brand-new-pass8")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("rotates and old stops working", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, u.ID, "correct-horse7", "brand-new-pass8"))

		_, err := svc.Authenticate(ctx, "owner@example.test", "correct-horse7")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)

		_, err = svc.Authenticate(ctx, "owner@example.test", "brand-new-pass8")
		assert.NoError(t, err)
	})
}

func TestMemoryRepository_TenantIsolation(t *testing.T) {
	t.Parallel()

	repo := user.NewMemoryRepository()
	storeA := newTestTenant("iso-a")
	storeB := newTestTenant("iso-b")

	u := &user.User{Email: "a@example.test", Role: user.RoleStaff, IsActive: true}
	require.NoError(t, repo.CreateUser(tenantCtx(storeA), u))

	t.Run("invisible to other tenants", func(t *testing.T) {
		_, err := repo.GetUser(tenantCtx(storeB), u.ID)
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		list, err := repo.ListUsers(tenantCtx(storeB))
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("reassignment rejected", func(t *testing.T) {
		got, err := repo.GetUser(tenantCtx(storeA), u.ID)
		require.NoError(t, err)

		got.SetOwnerTenantID(storeB.ID)
		err = repo.UpdateUser(tenantCtx(storeA), got)
		assert.ErrorIs(t, err, tenant.ErrTenantMismatch)
	})

	t.Run("platform admin lives outside tenant scope", func(t *testing.T) {
		admin := &user.User{Email: "root@platform.test", Role: user.RolePlatformAdmin, IsActive: true}
		adminCtx := tenant.WithEnforcementDisabled(context.Background())
		require.NoError(t, repo.CreateUser(adminCtx, admin))
		assert.Equal(t, uuid.Nil, admin.TenantID)
		assert.True(t, admin.IsPlatformAdmin())

		_, err := repo.GetUser(tenantCtx(storeA), admin.ID)
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		got, err := repo.GetUser(adminCtx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, admin.Email, got.Email)
	})
}
