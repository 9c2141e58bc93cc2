package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/storekit/modules/user"
	"github.com/dmitrymomot/storekit/pkg/tenant"
)

// MemoryStore is an in-memory Store for tests and local development. It also
// satisfies tenant.Provider so the resolver middleware can run against it.
//
// The tenant and settings records are written only after the user step
// succeeded, so a failed Provision leaves no resolvable tenant behind.
type MemoryStore struct {
	mu       sync.RWMutex
	tenants  map[string]*tenant.Tenant // keyed by subdomain
	users    *user.MemoryRepository
	settings map[uuid.UUID]*Settings // keyed by tenant ID
}

// NewMemoryStore creates an empty in-memory onboarding store sharing the
// given user repository.
func NewMemoryStore(users *user.MemoryRepository) *MemoryStore {
	return &MemoryStore{
		tenants:  make(map[string]*tenant.Tenant),
		users:    users,
		settings: make(map[uuid.UUID]*Settings),
	}
}

func (s *MemoryStore) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tenants[subdomain]
	return ok, nil
}

func (s *MemoryStore) Provision(ctx context.Context, t *tenant.Tenant, manager *user.User, profile *user.Profile, settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[t.Subdomain]; ok {
		return ErrSubdomainTaken
	}

	if err := s.users.CreateUser(ctx, manager); err != nil {
		return err
	}
	if err := s.users.CreateProfile(ctx, profile); err != nil {
		return err
	}

	now := time.Now()
	t.CreatedAt = now
	settings.CreatedAt, settings.UpdatedAt = now, now

	tcp := *t
	s.tenants[t.Subdomain] = &tcp
	scp := *settings
	s.settings[t.ID] = &scp
	return nil
}

// GetBySubdomain implements tenant.Provider. Inactive tenants are returned
// as-is; the resolver middleware decides how to treat them.
func (s *MemoryStore) GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenants[subdomain]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	cp := *t
	return &cp, nil
}

// Activate flips a provisioned tenant and its manager live, standing in for
// the platform operator's approval step.
func (s *MemoryStore) Activate(ctx context.Context, subdomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[subdomain]
	if !ok {
		return tenant.ErrTenantNotFound
	}
	t.Active = true

	scoped := tenant.WithTenant(ctx, t)
	managers, err := s.users.ListUsers(scoped)
	if err != nil {
		return err
	}
	for _, u := range managers {
		if u.Role != user.RoleManager || u.IsActive {
			continue
		}
		u.IsActive = true
		if err := s.users.UpdateUser(scoped, u); err != nil {
			return err
		}
	}
	return nil
}

// GetSettings returns the settings provisioned for a tenant.
func (s *MemoryStore) GetSettings(ctx context.Context, tenantID uuid.UUID) (*Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.settings[tenantID]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	cp := *st
	return &cp, nil
}
